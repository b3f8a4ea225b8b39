// Package instagram fetches public profile records from Instagram's web API.
//
// A single GET to the web profile info endpoint returns the user record,
// which is kept verbatim in Profile.Raw and decoded into Profile.User for
// rendering. Failures are returned as *errors.Error values so callers can
// tell a missing account from a network problem:
//
//	client := instagram.NewClient(&cfg.Instagram, log)
//	profile, err := client.FetchProfile(ctx, "username")
//	if errors.IsNotFound(err) {
//	    // account does not exist
//	}
package instagram
