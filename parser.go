package statement

import (
	"fmt"
	"regexp"
	"strings"
)

// Document is one text-extracted input: the statement text of a single
// source file. PDF rendering and OCR happen upstream of this package.
type Document struct {
	Filename string
	Text     string
}

// DocumentContext holds statement-wide values (base currency, statement
// year, ...) parsed once per document and available to every block section
// through Section.DocumentContext.
type DocumentContext map[string]string

// MalformedFieldError reports a block that was classified but whose required
// fields could not be extracted. It fails the single block, never the
// document.
type MalformedFieldError struct {
	Filename  string
	StartLine int // 1-based
	EndLine   int // 1-based
	Reason    string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s:%d-%d: %s", e.Filename, e.StartLine, e.EndLine, e.Reason)
}

// blockParser is what a Block executes over its line range. *Builder[T] is
// the only implementation; the indirection keeps Block free of the type
// parameter.
type blockParser interface {
	parseBlock(filename string, ctx DocumentContext, lines []string, start, end int) (Item, error)
}

// DocumentType describes one kind of statement an institution issues: the
// patterns that identify it, an optional document-wide context parser, and
// the transaction blocks to scan for.
type DocumentType struct {
	mustInclude    []*regexp.Regexp
	mustNotInclude []*regexp.Regexp
	contextFn      func(DocumentContext, []string)
	blocks         []*Block
}

// NewDocumentType returns a document type recognized by the given pattern.
func NewDocumentType(mustInclude string) *DocumentType {
	return &DocumentType{mustInclude: []*regexp.Regexp{regexp.MustCompile(mustInclude)}}
}

// MustNotInclude excludes documents matching the pattern, even when the
// mustInclude patterns match.
func (d *DocumentType) MustNotInclude(pattern string) *DocumentType {
	d.mustNotInclude = append(d.mustNotInclude, regexp.MustCompile(pattern))
	return d
}

// Context installs a function parsing document-wide values out of all lines
// before any block is scanned.
func (d *DocumentType) Context(fn func(DocumentContext, []string)) *DocumentType {
	d.contextFn = fn
	return d
}

// Block registers a transaction block to scan for.
func (d *DocumentType) Block(b *Block) *DocumentType {
	d.blocks = append(d.blocks, b)
	return d
}

// Matches reports whether the document text is of this type.
func (d *DocumentType) Matches(text string) bool {
	for _, p := range d.mustInclude {
		if !p.MatchString(text) {
			return false
		}
	}
	for _, p := range d.mustNotInclude {
		if p.MatchString(text) {
			return false
		}
	}
	return true
}

// parse scans one document. Every recognized block yields an item or a
// recorded failure; text outside any block boundary is ignored.
func (d *DocumentType) parse(doc Document, out *ExtractionResult) {
	lines := splitLines(doc.Text)

	ctx := DocumentContext{}
	if d.contextFn != nil {
		d.contextFn(ctx, lines)
	}

	for _, b := range d.blocks {
		b.parse(doc.Filename, ctx, lines, out)
	}
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// Block locates transaction blocks by their boundary patterns. A block
// starts at every line matching startsWith and runs until the next start
// (or the end pattern, or the size limit, whichever comes first).
type Block struct {
	startsWith *regexp.Regexp
	endsWith   *regexp.Regexp
	maxSize    int
	parser     blockParser
}

// NewBlock returns a block starting at lines matching the given pattern.
func NewBlock(startsWith string) *Block {
	return &Block{startsWith: regexp.MustCompile(startsWith), maxSize: -1}
}

// EndsWith ends the block early at the first line matching the pattern.
// A block whose end pattern never matches is not a block at all.
func (b *Block) EndsWith(pattern string) *Block {
	b.endsWith = regexp.MustCompile(pattern)
	return b
}

// MaxSize limits the number of lines matched to this block.
func (b *Block) MaxSize(n int) *Block {
	b.maxSize = n
	return b
}

// Set installs the builder assembling this block's item.
func (b *Block) Set(p blockParser) *Block {
	b.parser = p
	return b
}

func (b *Block) parse(filename string, ctx DocumentContext, lines []string, out *ExtractionResult) {
	var starts []int
	for i, line := range lines {
		if matchesFull(b.startsWith, line) {
			starts = append(starts, i)
		}
	}

	for i, start := range starts {
		end := len(lines) - 1
		if i+1 < len(starts) {
			end = starts[i+1] - 1
		}
		if b.endsWith != nil {
			end = b.findEnd(lines, start, end)
			if end < 0 {
				continue
			}
		}
		if b.maxSize >= 0 && end > start+b.maxSize-1 {
			end = start + b.maxSize - 1
		}

		item, err := b.run(filename, ctx, lines, start, end)
		if err != nil {
			// One malformed block never aborts the rest of the scan: record
			// the error and keep the raw excerpt for manual completion.
			out.Errors = append(out.Errors, err)
			out.Items = append(out.Items, &FailureItem{
				Excerpt: strings.Join(lines[start:end+1], "\n"),
				Err:     err,
				source:  filename,
			})
			continue
		}
		if item != nil {
			out.Items = append(out.Items, item)
		}
	}
}

func (b *Block) findEnd(lines []string, start, end int) int {
	for i := start; i <= end; i++ {
		if matchesFull(b.endsWith, lines[i]) {
			return i
		}
	}
	return -1
}

// run executes the block's builder, converting a panic out of a template
// callback (a currency mismatch, a malformed field accessor) into a failure
// of this block only.
func (b *Block) run(filename string, ctx DocumentContext, lines []string, start, end int) (item Item, err error) {
	if b.parser == nil {
		return nil, fmt.Errorf("block %q has no builder", b.startsWith)
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("block failed: %v", r)
		}
	}()
	return b.parser.parseBlock(filename, ctx, lines, start, end)
}

// matchesFull anchors the pattern to the whole line, the way block and
// section patterns are written in the institution templates.
func matchesFull(p *regexp.Regexp, line string) bool {
	loc := p.FindStringIndex(line)
	return loc != nil && loc[0] == 0 && loc[1] == len(line)
}

// Builder assembles one value of type T (a transaction, a buy/sell entry, a
// security) from the sections of a block, and wraps it into an Item.
type Builder[T any] struct {
	subject   func() T
	sections  []sectionParser[T]
	concludes []func(T)
	wrap      func(T) (Item, error)
}

// NewBuilder returns a builder producing fresh subjects with the given
// function, one per matched block.
func NewBuilder[T any](subject func() T) *Builder[T] {
	return &Builder[T]{subject: subject}
}

// Section adds a required section capturing the named attributes.
func (b *Builder[T]) Section(attributes ...string) *Section[T] {
	s := &Section[T]{builder: b, attributes: attributes}
	b.sections = append(b.sections, s)
	return s
}

// OneOf adds a group of alternative sections. They are tried in order and
// the first one matching is used; if none matches, the block fails.
func (b *Builder[T]) OneOf(alternatives ...func(*Section[T]) *Builder[T]) *Builder[T] {
	return b.oneOf(false, alternatives)
}

// OptionalOneOf is OneOf except that a block where no alternative matches
// parses on.
func (b *Builder[T]) OptionalOneOf(alternatives ...func(*Section[T]) *Builder[T]) *Builder[T] {
	return b.oneOf(true, alternatives)
}

func (b *Builder[T]) oneOf(optional bool, alternatives []func(*Section[T]) *Builder[T]) *Builder[T] {
	group := &oneOfSection[T]{optional: optional}
	for _, alt := range alternatives {
		s := &Section[T]{builder: b}
		alt(s)
		group.alternatives = append(group.alternatives, s)
	}
	b.sections = append(b.sections, group)
	return b
}

// Conclude registers a function run after all sections matched, before
// wrapping.
func (b *Builder[T]) Conclude(fn func(T)) *Builder[T] {
	b.concludes = append(b.concludes, fn)
	return b
}

// Wrap installs the function turning the assembled subject into an Item.
// Returning a nil Item drops the block silently; returning an error fails
// it.
func (b *Builder[T]) Wrap(fn func(T) (Item, error)) *Builder[T] {
	b.wrap = fn
	return b
}

func (b *Builder[T]) parseBlock(filename string, ctx DocumentContext, lines []string, start, end int) (Item, error) {
	target := b.subject()
	for _, s := range b.sections {
		if err := s.parseSection(filename, ctx, lines, start, end, target); err != nil {
			return nil, err
		}
	}
	for _, fn := range b.concludes {
		fn(target)
	}
	if b.wrap == nil {
		return nil, fmt.Errorf("%s: builder has no wrapping function", filename)
	}
	return b.wrap(target)
}

type sectionParser[T any] interface {
	parseSection(filename string, ctx DocumentContext, lines []string, start, end int, target T) error
}

// Section is a run of consecutive patterns capturing named attributes out of
// a block. All patterns must match, in order, for the section to match.
type Section[T any] struct {
	builder       *Builder[T]
	attributes    []string
	docAttributes []string
	patterns      []*regexp.Regexp
	optional      bool
	multipleTimes bool
	assign        func(T, Values)
}

// Attributes declares the named groups the section must capture. Used by
// OneOf alternatives, where the section is created without attributes.
func (s *Section[T]) Attributes(attributes ...string) *Section[T] {
	s.attributes = attributes
	return s
}

// Find matches a literal line, anchored on both ends.
func (s *Section[T]) Find(line string) *Section[T] {
	s.patterns = append(s.patterns, regexp.MustCompile("^"+line+"$"))
	return s
}

// Match adds a pattern with named capture groups for the attributes.
func (s *Section[T]) Match(pattern string) *Section[T] {
	s.patterns = append(s.patterns, regexp.MustCompile(pattern))
	return s
}

// Optional marks the section as optional: a block where it does not match
// parses on without it.
func (s *Section[T]) Optional() *Section[T] {
	s.optional = true
	return s
}

// MultipleTimes applies the section to every occurrence within the block
// instead of stopping at the first (stacked tax lines, for example).
func (s *Section[T]) MultipleTimes() *Section[T] {
	s.multipleTimes = true
	return s
}

// DocumentContext mixes the named document-wide values into the captured
// attributes. Missing context values fail the section.
func (s *Section[T]) DocumentContext(names ...string) *Section[T] {
	s.docAttributes = names
	return s
}

// Assign installs the function applying the captured values to the subject
// and returns the builder for chaining the next section.
func (s *Section[T]) Assign(fn func(T, Values)) *Builder[T] {
	s.assign = fn
	return s.builder
}

func (s *Section[T]) parseSection(filename string, ctx DocumentContext, lines []string, start, end int, target T) error {
	if s.assign == nil {
		return &MalformedFieldError{Filename: filename, StartLine: start + 1, EndLine: end + 1,
			Reason: "section has no assignment function"}
	}

	values := make(map[string]string)
	patternNo := 0
	foundOnce := false

	for i := start; i <= end; i++ {
		p := s.patterns[patternNo]
		m := p.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		captureAttributes(values, p, m)

		patternNo++
		if patternNo < len(s.patterns) {
			continue
		}

		// All patterns matched: check completeness, mix in context, assign.
		var missing []string
		for _, name := range s.attributes {
			if _, ok := values[name]; !ok {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			return &MalformedFieldError{Filename: filename, StartLine: start + 1, EndLine: end + 1,
				Reason: fmt.Sprintf("attributes %v were not captured", missing)}
		}
		for _, name := range s.docAttributes {
			v, ok := ctx[name]
			if !ok {
				return &MalformedFieldError{Filename: filename, StartLine: start + 1, EndLine: end + 1,
					Reason: fmt.Sprintf("document context value %q is missing", name)}
			}
			values[name] = v
		}

		s.assign(target, Values{m: values, filename: filename, startLine: start + 1, endLine: end + 1})

		if !s.multipleTimes {
			return nil
		}
		foundOnce = true
		patternNo = 0
		values = make(map[string]string)
	}

	if foundOnce || s.optional {
		return nil
	}
	return &MalformedFieldError{Filename: filename, StartLine: start + 1, EndLine: end + 1,
		Reason: fmt.Sprintf("matched %d of %d patterns, attributes %v", patternNo, len(s.patterns), s.attributes)}
}

// captureAttributes copies the non-empty named groups of a match into values.
func captureAttributes(values map[string]string, p *regexp.Regexp, m []string) {
	for gi, name := range p.SubexpNames() {
		if name == "" || gi >= len(m) {
			continue
		}
		if v := m[gi]; v != "" {
			values[name] = v
		}
	}
}

// oneOfSection tries its alternatives in order; the first one that parses
// wins.
type oneOfSection[T any] struct {
	alternatives []*Section[T]
	optional     bool
}

func (g *oneOfSection[T]) parseSection(filename string, ctx DocumentContext, lines []string, start, end int, target T) error {
	var reasons []string
	for _, s := range g.alternatives {
		err := s.parseSection(filename, ctx, lines, start, end, target)
		if err == nil {
			return nil
		}
		reasons = append(reasons, err.Error())
	}
	if g.optional {
		return nil
	}
	return &MalformedFieldError{Filename: filename, StartLine: start + 1, EndLine: end + 1,
		Reason: fmt.Sprintf("none of %d alternative sections matched: %s", len(g.alternatives), strings.Join(reasons, "; "))}
}
