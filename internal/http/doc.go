// Package http provides HTTP handlers and middleware for the running-order API.
//
// The router exposes the following endpoints:
//   - POST /documents/migrate: converts a document of any supported version to
//     the canonical shape without storing it. Response: {"document","migration"}.
//   - GET /documents: lists stored documents as {"documents":[{"key","size","updatedAt"}]}.
//   - GET /documents/{key}, PUT /documents/{key}, DELETE /documents/{key}: read,
//     import (migrating on the way in) and remove a stored document.
//   - GET /documents/{key}/running-order: grouped, time-ordered and
//     token-resolved items.
//   - GET /documents/{key}/fan-zone: the fan-zone schedule in time order.
//   - GET /documents/{key}/validation: data-quality issues; never blocks rendering.
//   - POST /documents/{key}/items, DELETE /documents/{key}/items/{itemID}: item
//     creation with a generated id, and item removal.
//   - PUT /documents/{key}/items/{itemID}/audio-sources: replaces the audio
//     sources of one item. Body: {"audioSources":[...]}.
//   - POST /documents/{key}/categories: appends a category.
//   - POST /tokens/apply: {"text","context"} to {"text","unresolved"}.
//   - GET /timecodes?value=...&dialect=matchday|fanzone: the parsed sort key and band.
//
// Errors are reported as {"error_code","message","errors"}: 400 for malformed
// bodies, 404 for unknown documents or items and 422 for field validation.
package http
