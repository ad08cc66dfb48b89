// Package resilience groups the fault-tolerance helpers used around the LLM
// completion service, which is treated as rate limited and unreliable.
//
//   - retry: bounded attempts with exponential backoff and jitter, retrying
//     only transient failures (timeouts, connection errors, HTTP 408/429/5xx)
//   - circuitbreaker: fails fast while a provider keeps failing
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.CompletionConfig("openai"))
//	err := retry.WithBackoff(ctx, retry.CompletionConfig(3), func() error {
//	    _, err := cb.Execute(func() (interface{}, error) {
//	        return provider.Complete(ctx, req)
//	    })
//	    return err
//	})
package resilience
