// Package acl is the anti-corruption layer between the quote API and the
// domain. External DTOs, status codes and decode failures stop here; callers
// only ever see domain types and *domain.ErrorInfo.
//
// Translation rules:
//   - transport failure (no response)   → domain.TransportError
//   - any non-2xx status                 → domain.TransportError "HTTP <code>[: message]"
//   - malformed JSON or missing fields   → domain.DecodeError
//
// Extra fields in a response body are ignored.
package acl
