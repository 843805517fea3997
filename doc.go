// Package cavif turns an in-memory RGB/RGBA pixel buffer into a complete
// image-container byte stream. The actual bitstream compression is delegated
// to a codec engine and the container layout to a muxer; this package owns
// the encode orchestration: the configuration surface, the cooperative
// cancellation and timeout protocol, and the alpha-channel preprocessing
// policy applied before compression.
//
// # Basic Usage
//
//	res, err := cavif.NewEncoder().
//		WithQuality(70).
//		WithSpeed(4).
//		EncodeRGBA(img)
//	if err != nil {
//		return err
//	}
//	os.WriteFile("hello.cavf", res.Data, 0o644)
//
// # Timeout Support
//
// For image proxies and web servers, encoding can be bounded with a
// built-in timeout:
//
//	enc := cavif.NewEncoder().
//		WithQuality(70).
//		WithTimeout(100 * time.Millisecond)
//
//	if _, err := enc.EncodeRGBA(img); errors.Is(err, cavif.ErrCancelled) {
//		log.Println("encoding timed out")
//	}
//
// # Cancellation Support
//
// For manual cancellation from another goroutine, use a CancellationToken.
// Copies of a token share one flag, so any copy can cancel the encode:
//
//	token := cavif.NewCancellationToken()
//	go func() {
//		time.Sleep(100 * time.Millisecond)
//		token.Cancel()
//	}()
//
//	enc := cavif.NewEncoder().WithCancellationToken(token)
//	if _, err := enc.EncodeRGBA(img); errors.Is(err, cavif.ErrCancelled) {
//		log.Println("encoding cancelled")
//	}
//
// Cancellation is cooperative: the flag is polled between units of codec
// output, so responsiveness is bounded by how long a single unit takes.
package cavif
