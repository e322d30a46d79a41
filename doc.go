// Package oaf implements a flat binary archive container that packs a
// sequence of named records into one contiguous byte buffer.
//
// An archive is produced once by a [Builder] and is immutable afterwards.
// Each record carries a [Signature] classifying it, a UTF-8 name, an opaque
// extra-data blob, and an opaque payload. Record bytes live in three shared
// segments (names, extra data, payload data); a fixed-size table entry per
// record locates its slices by offset and length within those segments.
//
// Decoding is zero-copy: [FromBytes] validates an untrusted buffer against
// the format contract and returns an [Archive] whose [Entry] views alias the
// caller's buffer. A successful parse is a complete well-formedness
// guarantee: every signature, every offset/length pair, and every name's
// UTF-8 validity is checked up front, so iteration cannot fail. Malformed or
// adversarial input yields typed errors, never panics.
//
// Build an archive:
//
//	b := oaf.NewBuilder()
//	if err := b.PushEntry(oaf.SignatureFile, "a.txt", nil, []byte("hi")); err != nil {
//	    return err
//	}
//	data, err := b.Finish()
//
// Read it back:
//
//	a, err := oaf.FromBytes(data)
//	if err != nil {
//	    return err
//	}
//	for e := range a.Entries() {
//	    fmt.Println(e.Name(), len(e.Data()))
//	}
//
// The [Archive] and all views derived from it must not outlive the byte
// buffer they borrow from.
package oaf
