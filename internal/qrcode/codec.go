package qrcode

// Codec binds a URLBuilder to fixed rendering options for one deployment.
type Codec struct {
	urls    *URLBuilder
	options Options
}

// NewCodec returns a Codec for origin rendering with opts.
func NewCodec(origin string, opts Options) (*Codec, error) {
	urls, err := NewURLBuilder(origin)
	if err != nil {
		return nil, err
	}
	return &Codec{urls: urls, options: opts}, nil
}

// BuildPublicURL delegates to the underlying URLBuilder.
func (c *Codec) BuildPublicURL(ownerID string) (string, error) {
	return c.urls.BuildPublicURL(ownerID)
}

// OwnerIDFromURL delegates to the underlying URLBuilder.
func (c *Codec) OwnerIDFromURL(publicURL string) (string, error) {
	return c.urls.OwnerIDFromURL(publicURL)
}

// Encode renders publicURL with the codec's fixed options.
func (c *Codec) Encode(publicURL string) ([]byte, error) {
	return Encode(publicURL, c.options)
}
