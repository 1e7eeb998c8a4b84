/*
Package domain contains the shared types of agentkit.

It defines the vocabulary every other package speaks: the catalog action names,
the response envelope, the dispatch request and journal record, and the error
taxonomy. This package is kept pure and free of I/O.

# Key Entities

  - ActionName: the closed set of catalog actions.
  - Envelope: Success (every declared result field plus "Success") or Failure
    (every declared field null plus the error text).
  - DispatchRequest: {action, arguments} as sent by a tool-calling host.
  - ParseError, UpstreamError, ErrUnknownAction: the failure kinds surfaced in envelopes.
*/
package domain
