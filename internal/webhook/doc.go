// Package webhook exposes the HTTP surface for hub-style callback endpoints.
//
// Each configured receiver gets one URL prefix serving two operations: the
// GET subscription handshake and the POST signed-notification delivery. A
// request may address a single subscription by appending a trailing id
// segment to the prefix.
//
// # Security Model
//
// - Signature and handshake checks are delegated to internal/hub
// - Body size limits enforced to prevent DoS attacks
// - No verification details leaked in error responses (generic 400)
// - Request logging excludes payload content
// - Secrets come from configuration with env interpolation (never hardcoded)
//
// # Request Flow
//
//  1. GET arrives: handshake is verified, the challenge value is echoed
//     back as a plain-text integer with 200
//  2. POST arrives: body size checked (reject with 413 if too large)
//  3. X-Hub-Signature extracted and verified over the request body
//  4. Payload stored as a delivery record
//  5. 202 Accepted returned with delivery_id
//
// # Error Responses
//
// - 400 Bad Request: failed handshake or signature verification (no details)
// - 404 Not Found: unknown endpoint path
// - 405 Method Not Allowed: anything other than GET or POST
// - 413 Payload Too Large: body exceeds max_body_size
// - 500 Internal Server Error: delivery could not be stored
package webhook
