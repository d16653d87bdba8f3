// Package krypt provides personal text encryption with one authenticated
// cipher and two educational ones, a bounded operation history and a local
// ephemeral message room.
//
// Modes:
//
//   - Secure: ChaCha20-Poly1305 with a 256-bit Base64 key. Ciphertext is
//     Base64 of nonce(12) || ciphertext || tag(16).
//   - XOR: each ASCII character XORed with a cycling decimal digit of an
//     integer key. Not a security boundary.
//   - Shift: letters shifted by a cycling list of integers (numeric
//     Vigenère). Not a security boundary.
//
// Basic usage:
//
//	engine, err := krypt.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	key := krypt.GenerateKey()
//	blob, err := engine.Encrypt(ctx, krypt.ModeSecure, key, "hello")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	text, err := engine.Decrypt(ctx, krypt.ModeSecure, key, blob)
//	if err != nil {
//	    fmt.Println(krypt.UserMessage(err))
//	}
//
// Ephemeral rooms keep messages in memory only. Each message counts down
// from 60 seconds and disappears at zero:
//
//	room, _ := engine.StartRoom()
//	room.OnChange(func(msgs []krypt.Message) { render(msgs) })
//	room.Send("this will self-destruct")
package krypt
