// Package http provides HTTP handlers and middleware for the recruitment API.
//
// The router exposes the following endpoints:
//   - POST /requests, GET /requests, GET/PUT /requests/{id}: requisition CRUD
//     exchanging the `requestDTO` payload defined in request_handler.go.
//   - POST /requests/{id}/approvals: records one approval decision; once the
//     requisition and budget approvals are granted the requisition derives to
//     approved.
//   - POST/PUT/GET /requests/{id}/interview-setup: the single interview setup
//     per requisition.
//   - GET /requests/{id}/slots?round=N: open, never-past slots for a round.
//   - GET /requests/{id}/interviews: confirmed interviews joined with their
//     booking candidates.
//   - POST /candidates, GET /candidates, GET/PUT /candidates/{id}: candidate
//     management exchanging the `candidateDTO` payload in candidate_handler.go.
//   - POST /candidates/{id}/stage and POST /candidates/{id}/rejection: the only
//     two entry points that mutate a candidate's stage.
//   - GET /pipeline/counts?request_id=: zero-filled per-stage counts.
//   - POST /interview-setups/{id}/slots: bulk slot generation (dates x windows).
//     Dates can be listed explicitly or derived from a weekly `repeat` rule
//     bounded by date_from/date_until; both sources merge and deduplicate.
//   - POST /slots/{id}/booking and POST /slots/{id}/confirmation: slot claim
//     and confirmation. A lost booking race returns 409 with error code
//     SLOT_UNAVAILABLE.
//   - POST /evaluations, GET /evaluations?interview_id=: scored interviewer
//     feedback.
//   - GET /pass/candidate, GET /pass/manager: token-scoped self-service views
//     guarded by the RequirePass middleware; the pass token travels in the
//     Authorization header as `Bearer {token}` or the `pass_token` query
//     parameter.
//   - POST /passes: issues a pass credential and returns its one-time token.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
