// Package submission implements the booking-setup Submission Controller: the
// four-field FormData record, the idle/loading/success/error state machine and
// the single outbound dispatch that moves it between states.
//
// The controller never renders anything itself. Surfaces read a Snapshot after
// each Transition and project it into markup or text (see pkg/render). The
// network call sits behind the Transport seam so tests and alternative
// transports can stand in for pkg/workflow.
package submission
