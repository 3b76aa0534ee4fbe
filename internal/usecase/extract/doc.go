// Package extract implements the signal extractors of the notes pipeline:
// key points, concepts, formulas, practice questions, topics, keywords and
// main points. Every extractor reads an annotated entity.Document and is
// independent of the others, so callers may run them concurrently.
package extract
