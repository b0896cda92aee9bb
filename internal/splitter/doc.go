// Package splitter divides a secret into fragments that are each useless on
// their own and reassembles them once every fragment is present.
//
// Two schemes are available:
//   - xor (default): n-1 fragments hold uniformly random pads, the last holds
//     the secret XOR every pad. Each fragment is uniformly random.
//   - shamir: n-of-n Shamir sharing over GF(2^16) (github.com/wbrc/shamir).
//
// Every fragment carries its index, the set size, a random set identifier
// and a salted fragment ID that detects corruption. No digest of the secret
// itself is ever stored.
package splitter
