// Package qrcode builds the canonical public URL for an owner and turns it
// into a scannable QR code PNG, and back again.
package qrcode
