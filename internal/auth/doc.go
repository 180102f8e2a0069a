// Package auth provides account provisioning, credential verification and
// role-gated authorization for the application.
//
// Accounts carry exactly one role from a closed set (USER, ADMIN). A login
// attempt turns raw credentials into an authenticated Principal or a single
// generic failure; unknown usernames and wrong passwords are not
// distinguishable from the outside.
//
// Authorization is an ordered, immutable rule table mapping route patterns
// to permitted role sets, evaluated first-match-wins on every request. Role
// matching is exact set membership: there is no role hierarchy, and a route
// whose rule grants no roles denies every authenticated principal.
//
// # Usage
//
// Wire the pieces in the entrypoint:
//
//	repo := accounts.NewRepository(db.DB)
//	service := auth.NewService(repo, cfg.Auth)
//	policy := auth.NewPolicy(auth.DefaultRules())
//	middleware := auth.NewMiddleware(service, sessionManager, policy)
//	router.Use(sessionManager.SessionLoadSave(), middleware.Handler())
//
// Extract the principal in handlers:
//
//	p := auth.GetPrincipal(c)
package auth
