// Package compose turns an annotated document into a summary.
//
// Segment packs sentences into model-sized segments, a BudgetStrategy picks
// the target summary length, and Composer drives the summarization model over
// the segments, stitches the outputs and applies the readability or bullet
// post-processing requested by the summary options.
package compose
