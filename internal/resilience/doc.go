// Package resilience groups the fault tolerance helpers used around remote
// collaborators of the notes pipeline: the linguistic annotator, the
// summarization and sentiment models, and the content loaders.
//
//	cb := circuitbreaker.New(circuitbreaker.AnnotatorConfig())
//	doc, err := circuitbreaker.Run(cb, func() (*entity.Document, error) {
//	    return client.annotate(ctx, text)
//	})
//
//	err := retry.WithBackoff(ctx, retry.AIAPIConfig(), func() error {
//	    return callModel()
//	})
package resilience
