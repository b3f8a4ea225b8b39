// Package ratelimit paces batch runs.
//
// FixedDelay implements Limiter by sleeping a constant interval on every
// Wait. The orchestrator calls Wait between targets only, so N targets cost
// N-1 delays. Wait returns early with ctx.Err() when the context is
// cancelled, which is how an interrupted batch stops.
//
// Usage:
//
//	limiter := ratelimit.NewFixedDelay(2 * time.Second)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
