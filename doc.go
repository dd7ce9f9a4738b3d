// Package intake collects the four booking setup fields (client name,
// subaccount token, location id, calendar id) and submits them as one JSON
// document to the workflow-creation service.
//
// The root package wires the pieces most callers need:
//
//	controller, err := intake.NewController(intake.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	_ = controller.Update(submission.FieldClientName, "Acme")
//	snap, err := controller.Submit(ctx)
//
// Lower-level building blocks live under pkg/: submission (state machine),
// workflow (HTTP transport), contract (OpenAPI description of the request),
// render and renderers (HTML and terminal surfaces).
package intake
