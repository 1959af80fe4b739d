// Package bootstrap runs a monox binary through a uniform lifecycle.
//
// An App validates its typed config, initializes logging, starts the
// registered components, runs a finite task under a context that is
// cancelled on SIGINT or SIGTERM, and stops the components again:
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(telemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return job.Run(ctx)
//	})
package bootstrap
