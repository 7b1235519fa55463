// Package failure maps errors of the console to user-facing categories and
// localized messages.
//
// Every fetch and mutation error is classified at the controller boundary:
//
//	f := failure.Classify(err, failure.Printer(c.Get(fiber.HeaderAcceptLanguage)))
//	if f.Teardown() {
//		// log out and redirect to the login page
//	}
//
// Messages sent by the API are shown verbatim; everything else is looked up
// in the message catalog of the request's language.
package failure
