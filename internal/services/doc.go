// Package services holds cross-cutting helpers shared by the pipeline and its
// external-tool clients: the sentinel error taxonomy used to classify
// failures, and context annotations that thread request identity through
// logging.
package services
