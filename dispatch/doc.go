// Package dispatch routes error values to handlers keyed by HTTP status code.
//
// A Dispatcher holds a base HandlerSet fixed at construction. Each call to
// Dispatch may pass override sets that are merged over the base for that call
// only. The error is normalized first; the handler registered for its status
// code runs when one exists, otherwise the Default handler runs.
//
//	d := dispatch.New(dispatch.Handlers[Problem]().
//		On(401, redirectToLogin).
//		OnDefault(showToast).
//		Build())
//
//	if err := d.Dispatch(err, dispatch.Handlers[Problem]().On(404, showEmpty).Build()); err != nil {
//		// err is not an error value this package understands
//	}
package dispatch
