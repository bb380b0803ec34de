// Package http implements the HTTP handlers of the trade report API. Handlers
// stay thin: they parse and validate the request, call the report or health
// service, and render the result as JSON with go-chi/render.
//
// # Routes
//
//	GET  /api/health                 liveness summary
//	GET  /api/health/ready           503 until the first report exists
//	GET  /api/health/live            runtime details
//	GET  /api/version                build information
//	GET  /api/report                 summary of the latest report
//	POST /api/report/run             start a run (?wait=true to block)
//	GET  /api/report/series/{kind}   top-N yearly series (?limit=N)
//	GET  /api/report/clusters/{kind} k-means assignments
//	GET  /api/report/graphs/{kind}   correlation graph (?format=dot)
//	GET  /api/report/artifacts/*     files written by the latest run
//	GET  /metrics                    Prometheus exposition
//
// {kind} is one of export_partner, import_partner, export_product or
// import_product.
//
// # Error Handling
//
// Every error is written as RFC 7807 problem details by the shared
// errors.ErrorHandler:
//
//	{
//	    "type": "/errors/analysis/skipped",
//	    "title": "Unprocessable Entity",
//	    "status": 422,
//	    "detail": "Analysis export_partner was skipped",
//	    "instance": "/api/report/clusters/export_partner",
//	    "error_code": "ANALYSIS_SKIPPED",
//	    "trace_id": "..."
//	}
package http
