package model

// Capacity limits for the repeatable metadata tags. Values beyond the limit
// are dropped without error.
const (
	MaxAuthors   = 16
	MaxLicenses  = 4
	MaxLanguages = 256
)

// MetadataBuilder accumulates metadata tags while a document is scanned.
type MetadataBuilder struct {
	title     string
	subtitle  *string
	authors   []string
	licenses  []string
	languages []string
	cache     *uint32
}

// SetTitle overwrites the title.
func (b *MetadataBuilder) SetTitle(title string) {
	b.title = title
}

// SetSubtitle overwrites the subtitle.
func (b *MetadataBuilder) SetSubtitle(subtitle string) {
	b.subtitle = &subtitle
}

// AddAuthor appends an author and reports whether there was room for it.
func (b *MetadataBuilder) AddAuthor(author string) bool {
	return appendCapped(&b.authors, author, MaxAuthors)
}

// AddLicense appends a license and reports whether there was room for it.
func (b *MetadataBuilder) AddLicense(license string) bool {
	return appendCapped(&b.licenses, license, MaxLicenses)
}

// AddLanguage appends a language and reports whether there was room for it.
func (b *MetadataBuilder) AddLanguage(language string) bool {
	return appendCapped(&b.languages, language, MaxLanguages)
}

// SetCache overwrites the cache duration in seconds.
func (b *MetadataBuilder) SetCache(seconds uint32) {
	b.cache = &seconds
}

// Build returns the accumulated Metadata. The builder can keep being used;
// the returned value does not share slices with it.
func (b *MetadataBuilder) Build() Metadata {
	meta := Metadata{
		Title:     b.title,
		Authors:   cloneStrings(b.authors),
		Licenses:  cloneStrings(b.licenses),
		Languages: cloneStrings(b.languages),
	}
	if b.subtitle != nil {
		subtitle := *b.subtitle
		meta.Subtitle = &subtitle
	}
	if b.cache != nil {
		cache := *b.cache
		meta.Cache = &cache
	}
	return meta
}

// DocumentBuilder accumulates lines while a document is scanned.
type DocumentBuilder struct {
	metadata MetadataBuilder
	main     []MainLine
	header   []HeaderLine
	footer   []FooterLine
}

// NewDocumentBuilder returns an empty builder.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

// Metadata exposes the metadata accumulator.
func (b *DocumentBuilder) Metadata() *MetadataBuilder {
	return &b.metadata
}

// AddMainLine appends a line to the main section.
func (b *DocumentBuilder) AddMainLine(line MainLine) {
	b.main = append(b.main, line)
}

// AddHeaderLine appends a line to the header section.
func (b *DocumentBuilder) AddHeaderLine(line HeaderLine) {
	b.header = append(b.header, line)
}

// AddFooterLine appends a line to the footer section.
func (b *DocumentBuilder) AddFooterLine(line FooterLine) {
	b.footer = append(b.footer, line)
}

// Build finalises the accumulated state into a Document.
func (b *DocumentBuilder) Build() Document {
	doc := Document{
		Metadata: b.metadata.Build(),
		Main:     append([]MainLine{}, b.main...),
	}
	if len(b.header) > 0 {
		doc.Header = append([]HeaderLine(nil), b.header...)
	}
	if len(b.footer) > 0 {
		doc.Footer = append([]FooterLine(nil), b.footer...)
	}
	return doc
}

func appendCapped(list *[]string, value string, limit int) bool {
	if len(*list) >= limit {
		return false
	}
	*list = append(*list, value)
	return true
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
