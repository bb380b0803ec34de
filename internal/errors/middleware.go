package errors

import "net/http"

// RecoveryMiddleware turns a handler panic into a 500 problem. The server's
// own abort panic is passed through.
func RecoveryMiddleware(handler *ErrorHandler) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				switch {
				case rec == nil:
				case rec == http.ErrAbortHandler:
					panic(rec)
				default:
					handler.HandlePanic(w, r, rec)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
