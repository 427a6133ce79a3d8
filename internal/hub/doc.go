// Package hub implements a hub-style (Facebook callback) webhook receiver:
// subscription handshake and HMAC-SHA1 payload verification.
//
// # Security Model
//
// - Signatures verified with crypto/hmac (constant-time comparison)
// - Secret resolution is a hard precondition; there is no default-allow
// - No computed digest material leaked in error responses
// - Secrets resolved per subscription id (default plus per-id overrides)
//
// # Handshake (GET)
//
//  1. Resolve the shared secret for the subscription id
//  2. Check hub.mode == "subscribe" and hub.verify_token equals the secret
//  3. Parse hub.challenge as an integer and echo it back
//
// # Notification (POST)
//
//  1. Resolve the shared secret for the subscription id
//  2. Parse the X-Hub-Signature header ("sha1=<hex>")
//  3. Escape the body (UTF-16 code units above 0x7F become \uXXXX)
//  4. Compute HMAC-SHA1 over the escaped bytes and compare digests
//  5. Forward the payload to the dispatcher
//
// The signer computes its digest over an ASCII-escaped JSON serialization
// rather than the raw UTF-8 bytes; step 3 reproduces that escaping so the
// digests interoperate. A receiver targeting a different signer must
// confirm the expected byte representation before reusing this escaping.
package hub
