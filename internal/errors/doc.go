// Package errors provides the structured error type used across the pokedex module.
//
// Errors carry a Code, a short message, an optional cause and metadata:
//
//	err := errors.NotFoundf("quiz session %s not found", id)
//	err := errors.Unavailable("catalog list endpoint failed").
//	    WithMeta("attempts", 3)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Save(ctx, state); err != nil {
//	    return errors.Wrap(err, "failed to flush progress")
//	}
//
// Responses from the creature API are classified with CodeFromHTTPStatus so
// callers can tell a missing record from an outage:
//
//	if errors.IsNotFound(err) {
//	    // drop the record
//	}
//
// Config and constructor validation goes through the ValidationBuilder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("catalog.batch_size", cfg.BatchSize, 1, 200, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
package errors
