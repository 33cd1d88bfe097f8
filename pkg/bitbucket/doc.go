// Package bitbucket authenticates users against Bitbucket with OAuth 2.0 and
// normalizes the user and email responses into oauth2.Profile.
//
// The OAuth2 handshake itself is run by oauth2.Engine; this package supplies
// the Bitbucket endpoints, header shaping and the profile-fetch step.
//
//	strategy, err := bitbucket.New(bitbucket.Config{
//		ClientID:     os.Getenv("BITBUCKET_CLIENT_ID"),
//		ClientSecret: os.Getenv("BITBUCKET_CLIENT_SECRET"),
//		CallbackURL:  "https://example.com/auth/bitbucket/callback",
//		IncludeEmail: true,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	url, err := strategy.Engine().BeginAuth(ctx)
//	// redirect the user to url, then in the callback handler:
//	result, err := strategy.Engine().CompleteAuth(ctx, code, state)
//
// ParseProfile and ParseEmails can also be used on their own, on raw bodies
// or on values the caller already decoded.
package bitbucket
