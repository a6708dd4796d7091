// Package identity computes the content hash and size that identify a
// RomEntity to the Provider. Hashing is pure, reentrant, and
// network-free: the same file hashed twice yields the same result.
package identity
