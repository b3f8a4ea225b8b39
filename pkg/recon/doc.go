// Package recon orchestrates profile reconnaissance.
//
// Run takes one username through the whole pipeline: fetch the profile,
// create <base>/<username>_recon/, print the console report, save the
// profile picture, the JSON snapshot and the HTML report. RunBatch repeats
// Run for a list of usernames, waiting on a ratelimit.Limiter between
// targets. Everything runs on the calling goroutine.
//
//	r := recon.New(cfg, instagram.NewClient(&cfg.Instagram, log))
//	targets, err := recon.LoadTargets("targets.txt")
//	if err != nil {
//	    return err
//	}
//	summary := r.RunBatch(ctx, targets)
package recon
