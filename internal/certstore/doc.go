// Package certstore locates client certificates in a directory of PEM files.
//
// Each .pem, .crt or .cer file holds a certificate chain, leaf first, and
// either carries the matching private key itself or has it in a sibling .key
// file. Find picks the newest currently valid certificate for a subject name.
package certstore
