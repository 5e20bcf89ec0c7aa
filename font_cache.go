package goslides

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// fontKey uniquely identifies a font face by name, size, bold, and italic.
type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache manages TrueType font loading and face caching, and measures
// wrapped text for auto-fit. It searches system font directories and
// user-specified directories for .ttf, .otf and .ttc files. Families that
// cannot be found are measured with the embedded Go fonts. The font tables
// are guarded by a mutex, but the cached faces are not safe for concurrent
// use, so measure from the goroutine that owns the deck.
type FontCache struct {
	mu        sync.RWMutex
	dirs      []string                  // directories to search for fonts
	fonts     map[string]*opentype.Font // lowercase font name -> parsed font
	faces     map[fontKey]font.Face     // cached measure faces (HintingNone)
	fallbacks [4]*opentype.Font         // regular, bold, italic, bold italic
	scanned   bool
}

// NewFontCache creates a FontCache that searches the given directories
// plus the OS default font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	return NewFontCacheDirs(append(systemFontDirs(), extraDirs...)...)
}

// NewFontCacheDirs creates a FontCache that searches only dirs. With no dirs
// every family resolves to the embedded Go fonts, which makes measurements
// reproducible across machines.
func NewFontCacheDirs(dirs ...string) *FontCache {
	return &FontCache{
		dirs:  dirs,
		fonts: make(map[string]*opentype.Font),
		faces: make(map[fontKey]font.Face),
	}
}

// Face returns an unhinted face for spec, falling back to the embedded Go
// font of the same style when the family is not installed.
func (fc *FontCache) Face(spec FontSpec) font.Face {
	fc.ensureScanned()

	bold, italic := spec.Weight.IsBold(), spec.Style == FontStyleItalic
	key := fontKey{name: strings.ToLower(spec.Family), size: spec.Size, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.findFont(spec.Family, bold, italic)
	if f == nil {
		f = fc.fallback(bold, italic)
	}
	if f == nil {
		return nil
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// MeasureText lays text out word-wrapped to width pixels and returns the
// widest line and the total height. Explicit newlines always break. A word
// wider than width is left on its own line and overflows. Font size is in
// pixels.
func (fc *FontCache) MeasureText(spec FontSpec, width float64, text string) (w, h float64) {
	if text == "" || spec.Size <= 0 {
		return 0, 0
	}
	face := fc.Face(spec)
	if face == nil {
		return 0, 0
	}
	maxWidth := fixed.Int26_6(width * 64)
	lineHeight := face.Metrics().Height

	var widest fixed.Int26_6
	lines := 0
	for _, para := range strings.Split(text, "\n") {
		for _, lw := range wrapLine(face, para, maxWidth) {
			if lw > widest {
				widest = lw
			}
			lines++
		}
	}
	return fixedToFloat(widest), fixedToFloat(lineHeight) * float64(lines)
}

// wrapLine greedily breaks one paragraph into lines no wider than maxWidth
// and returns each line's width. Runs of whitespace collapse to one space. An
// empty paragraph is one empty line.
func wrapLine(face font.Face, para string, maxWidth fixed.Int26_6) []fixed.Int26_6 {
	words := strings.Fields(para)
	if len(words) == 0 {
		return []fixed.Int26_6{0}
	}

	var widths []fixed.Int26_6
	var cur fixed.Int26_6
	inLine := false
	space := font.MeasureString(face, " ")
	for _, word := range words {
		ww := font.MeasureString(face, word)
		if inLine {
			if cur+space+ww > maxWidth {
				widths = append(widths, cur)
				cur = 0
			} else {
				cur += space
			}
		}
		cur += ww
		inLine = true
	}
	return append(widths, cur)
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

// fallback returns the embedded Go font matching the style.
func (fc *FontCache) fallback(bold, italic bool) *opentype.Font {
	idx := 0
	if bold {
		idx |= 1
	}
	if italic {
		idx |= 2
	}

	fc.mu.RLock()
	f := fc.fallbacks[idx]
	fc.mu.RUnlock()
	if f != nil {
		return f
	}

	data := [4][]byte{goregular.TTF, gobold.TTF, goitalic.TTF, gobolditalic.TTF}[idx]
	f, err := opentype.Parse(data)
	if err != nil {
		return nil
	}
	fc.mu.Lock()
	fc.fallbacks[idx] = f
	fc.mu.Unlock()
	return f
}

// findFont looks up a parsed font by name, trying style-specific variants
// first and then generic family aliases.
func (fc *FontCache) findFont(name string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	lower := strings.ToLower(strings.TrimSpace(name))
	if f := fc.findFontByKey(lower, bold, italic); f != nil {
		return f
	}
	for _, alias := range genericFamilies[lower] {
		if f := fc.findFontByKey(alias, bold, italic); f != nil {
			return f
		}
	}
	return nil
}

// findFontByKey looks up a font by its already-lowercased key, with style variants.
func (fc *FontCache) findFontByKey(lower string, bold, italic bool) *opentype.Font {
	if bold && italic {
		for _, suffix := range []string{" bold italic", "bi", " bolditalic", "z", "-bolditalic"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if bold {
		for _, suffix := range []string{" bold", "bd", "b", "-bold"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if italic {
		for _, suffix := range []string{" italic", "i", " it", "-italic", " oblique", "-oblique"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if f, ok := fc.fonts[lower]; ok {
		return f
	}
	return nil
}

// genericFamilies maps the generic family names decks are authored with to
// common installed families, most preferred first.
var genericFamilies = map[string][]string{
	"sans":       {"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica", "cantarell"},
	"sans-serif": {"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica"},
	"serif":      {"dejavu serif", "liberation serif", "noto serif", "times new roman", "times"},
	"monospace":  {"dejavu sans mono", "liberation mono", "noto sans mono", "courier new", "menlo"},
}

// LoadFont manually loads a TrueType/OpenType font file and registers it under the given name.
// Returns an error if the file exceeds maxFontFileSize.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("failed to parse font %q: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.faces = make(map[fontKey]font.Face)
	fc.mu.Unlock()
	return nil
}

// Families returns the number of registered font names after scanning.
func (fc *FontCache) Families() int {
	fc.ensureScanned()
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.fonts)
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true

	for _, dir := range fc.dirs {
		fc.scanDir(dir)
	}
	Logger().Debug("font directories scanned", "dirs", len(fc.dirs), "fonts", len(fc.fonts))
}

const (
	// maxFontScanDepth limits how deep below a font directory scanning goes.
	maxFontScanDepth = 3
	// maxFontFileSize limits the size of individual font files loaded into memory.
	maxFontFileSize = 20 << 20 // 20 MB
)

// fontFileKind classifies a file name: "single" for .ttf/.otf, "collection"
// for .ttc/.otc, "" otherwise.
func fontFileKind(lowerName string) string {
	switch filepath.Ext(lowerName) {
	case ".ttf", ".otf":
		return "single"
	case ".ttc", ".otc":
		return "collection"
	}
	return ""
}

// scanDir registers every font file under root. Unreadable entries are
// skipped; the walk never fails.
func (fc *FontCache) scanDir(root string) {
	root = filepath.Clean(root)
	baseDepth := strings.Count(root, string(filepath.Separator))
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			if strings.Count(path, string(filepath.Separator))-baseDepth > maxFontScanDepth {
				return fs.SkipDir
			}
			return nil
		}
		lower := strings.ToLower(entry.Name())
		kind := fontFileKind(lower)
		if kind == "" {
			return nil
		}
		if info, err := entry.Info(); err != nil || info.Size() > maxFontFileSize {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		if err := fc.register(kind, strings.TrimSuffix(lower, filepath.Ext(lower)), data); err != nil {
			Logger().Debug("skipping font file", "path", path, "error", err)
		}
		return nil
	})
}

// register parses a font file and files it under its base name and its
// internal names. For a collection only the first face takes the base name.
func (fc *FontCache) register(kind, baseName string, data []byte) error {
	if kind == "single" {
		f, err := opentype.Parse(data)
		if err != nil {
			return err
		}
		fc.fonts[baseName] = f
		fc.registerByFamilyName(f)
		return nil
	}
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return err
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[baseName] = f
		}
		fc.registerByFamilyName(f)
	}
	return nil
}

// registerByFamilyName registers f under its family and full names. The
// family name only claims the slot if it is still free, so "DejaVu Sans"
// keeps the regular face rather than whichever style was scanned last.
func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	familyName, err := f.Name(nil, sfnt.NameIDFamily)
	if err == nil && familyName != "" {
		key := strings.ToLower(familyName)
		if _, taken := fc.fonts[key]; !taken || isRegularSubfamily(f) {
			fc.fonts[key] = f
		}
	}
	fullName, err := f.Name(nil, sfnt.NameIDFull)
	if err == nil && fullName != "" {
		fc.fonts[strings.ToLower(fullName)] = f
	}
}

func isRegularSubfamily(f *opentype.Font) bool {
	sub, err := f.Name(nil, sfnt.NameIDSubfamily)
	if err != nil {
		return false
	}
	switch strings.ToLower(sub) {
	case "regular", "book", "roman", "normal":
		return true
	}
	return false
}

// systemFontDirs returns the directories fonts are installed to on the
// current OS, system-wide first.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	var dirs, user []string
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs = []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts"}
		user = []string{filepath.Join("Library", "Fonts")}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dirs = append(dirs, filepath.Join(xdg, "fonts"))
		}
		user = []string{filepath.Join(".local", "share", "fonts"), ".fonts"}
	}
	if home != "" {
		for _, u := range user {
			dirs = append(dirs, filepath.Join(home, u))
		}
	}
	return dirs
}
