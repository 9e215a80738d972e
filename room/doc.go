// Package room implements the call-state core of avatarcall: the
// participant/track reconciler and the call controller.
//
// The package consumes the event stream of a CallClient (the external
// video-call SDK, see package signaling for the shipped implementation)
// and turns it into commands against a RenderSurface, the sink that owns
// the actual video surfaces, audio outputs and status displays.
//
// # Architecture
//
//   - Event: closed tagged union of call signals (joined/left/error,
//     participant lifecycle, active speaker, application messages)
//   - Reconciler: per-participant, per-track rendering intent; decides
//     when a sink is created, rebound, hidden or released
//   - Controller: call lifecycle (Idle -> Joining -> Joined -> Leaving)
//     and exhaustive dispatch of the event union
//   - RenderSurface / CallClient: the two seams, both interfaces so the
//     core is testable with in-memory doubles
//
// # Usage
//
// Wire a client and a surface into a controller and feed it events:
//
//	ctrl, err := room.NewController(client, surface)
//	if err != nil {
//	    return err
//	}
//	client.SetEventHandler(ctrl.Dispatch)
//	if err := ctrl.Join(ctx, session.RoomURL); err != nil {
//	    return err
//	}
//
// All event handling runs to completion on the caller's goroutine; the
// controller and reconciler serialize their own state with mutexes so
// Join/Leave may be called from a different goroutine than Dispatch.
package room
