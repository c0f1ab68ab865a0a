// Package pup implements the conversational tool-calling loop.
//
// A Pup sends the conversation to a model.Model, classifies each reply and
// either finishes (text answer, structured answer, bail) or dispatches the
// requested capabilities concurrently, appends their results and asks again.
// Every run is bounded by an iteration budget counted in model requests.
//
// Failures are returned as *core.PupError: a bail is cognitive, everything
// else (budget exhaustion, unknown capability, malformed arguments, failing
// handlers, schema violations, provider errors) is technical.
//
//	p, _ := pup.New(model, func(o *pup.Options) {
//		o.Instructions = "You echo what the user says using the echo tool."
//		o.Tools = registry.Get("echo")
//	})
//	res, err := p.Run(ctx, "echo hello")
package pup
