// Package workers sizes the worker pool used to fan out compression jobs.
// Counts respect container CPU limits through GOMAXPROCS and can be
// overridden with the CAVIF_WORKERS environment variable.
package workers
