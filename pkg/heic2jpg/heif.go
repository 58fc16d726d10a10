package heic2jpg

// heifSupport confirms HEIF decode support before a batch touches any file.
// The goheif decoder is linked into the binary, so the stock check always
// passes; it is a variable so tests can simulate an environment where the
// decoder is unavailable.
var heifSupport = func() error { return nil }
