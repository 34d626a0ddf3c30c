package swf

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/scswf/pkg/bytestream"
	"github.com/Faultbox/scswf/pkg/compression"
)

// headerReservedBytes are skipped between the bank-0 capacities and the export table.
const headerReservedBytes = 5

// Export binds a movie clip id to a public name.
type Export struct {
	ID   uint16
	Name string
}

// SupercellSWF is a loaded SC container.
type SupercellSWF struct {
	filename string
	dir      string
	opts     Options
	log      *zap.Logger

	shapes     []*ShapeOriginal
	movieClips []*MovieClipOriginal
	textures   []*SWFTexture
	textFields []*TextFieldOriginal
	modifiers  []*MovieClipModifierOriginal

	shapesIDs     []uint16
	movieClipsIDs []uint16
	textFieldsIDs []uint16

	shapeIndex     map[uint16]int
	movieClipIndex map[uint16]int
	textFieldIndex map[uint16]int
	modifierIndex  map[uint16]int

	matrixBanks []*MatrixBank
	exports     []Export
	fontNames   []string
	diagnostics []Diagnostic

	// Capability flags set by USE_* tags.
	UseLowresTexture      bool
	UseExternalTexture    bool
	UseUncommonResolution bool
	UseHighresTexture     bool

	highresSuffix       string
	lowresSuffix        string
	hasExternalSuffixes bool

	uncommonResolutionTexturePath string
	texturePath                   string
}

// Load reads a container and, when it declares external textures, its companion texture file.
func Load(path string) (*SupercellSWF, error) {
	return LoadWithOptions(path, DefaultOptions())
}

// LoadWithOptions is Load with explicit naming, logging and texture options.
func LoadWithOptions(path string, opts Options) (*SupercellSWF, error) {
	opts = opts.withDefaults()
	swf := &SupercellSWF{
		filename:      path,
		opts:          opts,
		log:           opts.Logger,
		highresSuffix: opts.HighresSuffix,
		lowresSuffix:  opts.LowresSuffix,
	}

	if err := swf.loadInternal(path, false); err != nil {
		return nil, err
	}
	if !swf.UseExternalTexture || opts.SkipExternalTextures {
		return swf, nil
	}

	texturePath := swf.uncommonResolutionTexturePath
	if !swf.UseUncommonResolution {
		var err error
		if texturePath, err = TexturePath(path, opts.TextureExtension); err != nil {
			return nil, &LoadError{Filename: path, Err: err}
		}
	}
	swf.texturePath = texturePath

	if err := swf.loadInternal(texturePath, true); err != nil {
		return nil, err
	}
	return swf, nil
}

func (swf *SupercellSWF) loadInternal(path string, isTextureFile bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if isTextureFile && errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: %s", ErrTextureFileNotFound, path)
		}
		return &LoadError{Filename: path, Err: err}
	}

	decompressed, err := compression.Decompress(data)
	if err != nil {
		return &LoadError{Filename: path, Err: err}
	}

	swf.dir = filepath.Dir(path)
	s := bytestream.New(decompressed)

	if !isTextureFile {
		if err := swf.readHeader(s); err != nil {
			return &LoadError{Filename: path, Err: fmt.Errorf("reading header: %w", err)}
		}
	}

	if err := swf.loadTags(s, path, isTextureFile); err != nil {
		return &LoadError{Filename: path, Err: err}
	}

	if isTextureFile {
		swf.log.Debug("loaded texture file",
			zap.String("file", path),
			zap.Int("textures", len(swf.textures)))
		return nil
	}

	swf.buildIndex()
	for _, export := range swf.exports {
		movieClip, err := swf.GetOriginalMovieClip(export.ID, export.Name)
		if err != nil {
			return &LoadError{Filename: path, Err: err}
		}
		movieClip.SetExportName(export.Name)
	}

	swf.log.Debug("loaded container",
		zap.String("file", path),
		zap.Int("shapes", len(swf.shapes)),
		zap.Int("movie_clips", len(swf.movieClips)),
		zap.Int("textures", len(swf.textures)),
		zap.Int("text_fields", len(swf.textFields)),
		zap.Int("matrix_banks", len(swf.matrixBanks)),
		zap.Int("exports", len(swf.exports)),
		zap.Int("diagnostics", len(swf.diagnostics)))
	return nil
}

func (swf *SupercellSWF) readHeader(s *bytestream.Stream) error {
	counts, err := s.ReadShortArray(6)
	if err != nil {
		return err
	}
	shapesCount, movieClipsCount, texturesCount, textFieldsCount := counts[0], counts[1], counts[2], counts[3]
	swf.matrixBanks = []*MatrixBank{NewMatrixBank(int(counts[4]), int(counts[5]))}

	if err := s.Skip(headerReservedBytes); err != nil {
		return err
	}

	exportsCount, err := s.ReadUnsignedShort()
	if err != nil {
		return err
	}
	ids, err := s.ReadShortArray(int(exportsCount))
	if err != nil {
		return err
	}
	swf.exports = make([]Export, exportsCount)
	for i := range swf.exports {
		name, _, err := s.ReadASCII()
		if err != nil {
			return fmt.Errorf("export %d: %w", i, err)
		}
		swf.exports[i] = Export{ID: ids[i], Name: name}
	}

	swf.shapes = make([]*ShapeOriginal, shapesCount)
	for i := range swf.shapes {
		swf.shapes[i] = &ShapeOriginal{}
	}
	swf.movieClips = make([]*MovieClipOriginal, movieClipsCount)
	for i := range swf.movieClips {
		swf.movieClips[i] = &MovieClipOriginal{}
	}
	swf.textures = make([]*SWFTexture, texturesCount)
	for i := range swf.textures {
		swf.textures[i] = &SWFTexture{index: i}
	}
	swf.textFields = make([]*TextFieldOriginal, textFieldsCount)
	for i := range swf.textFields {
		swf.textFields[i] = &TextFieldOriginal{}
	}

	swf.shapesIDs = make([]uint16, shapesCount)
	swf.movieClipsIDs = make([]uint16, movieClipsCount)
	swf.textFieldsIDs = make([]uint16, textFieldsCount)
	return nil
}

// readTag reads a tag header and returns its payload as a bounded stream.
func readTag(s *bytestream.Stream) (Tag, int32, *bytestream.Stream, error) {
	tag, err := s.ReadUnsignedChar()
	if err != nil {
		return 0, 0, nil, err
	}
	length, err := s.ReadInt()
	if err != nil {
		return 0, 0, nil, err
	}
	if length < 0 {
		return Tag(tag), length, nil, fmt.Errorf("%w: tag %s, length %d", ErrNegativeTagLength, Tag(tag), length)
	}
	payload, err := s.Sub(int(length))
	if err != nil {
		return Tag(tag), length, nil, fmt.Errorf("tag %s payload: %w", Tag(tag), err)
	}
	return Tag(tag), length, payload, nil
}

// tagLoader holds per-file dispatch state.
type tagLoader struct {
	path          string
	isTextureFile bool

	bank         *MatrixBank
	bankOverflow bool

	loadedShapes          int
	loadedMovieClips      int
	loadedTextures        int
	loadedTextFields      int
	loadedMatrices        int
	loadedColorTransforms int
	loadedModifiers       int
}

func (swf *SupercellSWF) loadTags(s *bytestream.Stream, path string, isTextureFile bool) error {
	l := &tagLoader{path: path, isTextureFile: isTextureFile}
	if len(swf.matrixBanks) > 0 {
		l.bank = swf.matrixBanks[0]
	}

	for {
		tag, length, payload, err := readTag(s)
		if err != nil {
			return err
		}

		if tag == TagEOF {
			return l.checkCounts(swf)
		}

		if tag.IsTexture() {
			if l.loadedTextures >= len(swf.textures) {
				return fmt.Errorf("%w: textures, declared %d", ErrTooManyObjects, len(swf.textures))
			}
			texture := swf.textures[l.loadedTextures]
			texture.index = l.loadedTextures
			l.loadedTextures++

			hasPixels := isTextureFile || !swf.UseExternalTexture
			if err := texture.load(swf, payload, tag, hasPixels); err != nil {
				return fmt.Errorf("%s: %w", texture, err)
			}
			continue
		}

		if isTextureFile {
			swf.reportUnsupported(tag, length, "")
			continue
		}

		if err := swf.dispatch(l, tag, length, payload); err != nil {
			return err
		}
	}
}

func (swf *SupercellSWF) dispatch(l *tagLoader, tag Tag, length int32, s *bytestream.Stream) error {
	switch {
	case tag.IsShape():
		if l.loadedShapes >= len(swf.shapes) {
			return fmt.Errorf("%w: shapes, declared %d", ErrTooManyObjects, len(swf.shapes))
		}
		shape := swf.shapes[l.loadedShapes]
		if err := shape.load(swf, s, tag); err != nil {
			return err
		}
		swf.shapesIDs[l.loadedShapes] = shape.id
		l.loadedShapes++
	case tag.IsMovieClip():
		if l.loadedMovieClips >= len(swf.movieClips) {
			return fmt.Errorf("%w: movie clips, declared %d", ErrTooManyObjects, len(swf.movieClips))
		}
		movieClip := swf.movieClips[l.loadedMovieClips]
		if err := movieClip.load(swf, s, tag); err != nil {
			return err
		}
		swf.movieClipsIDs[l.loadedMovieClips] = movieClip.id
		l.loadedMovieClips++
	case tag.IsTextField():
		if l.loadedTextFields >= len(swf.textFields) {
			return fmt.Errorf("%w: text fields, declared %d", ErrTooManyObjects, len(swf.textFields))
		}
		textField := swf.textFields[l.loadedTextFields]
		if err := textField.load(swf, s, tag); err != nil {
			return err
		}
		swf.textFieldsIDs[l.loadedTextFields] = textField.id
		l.loadedTextFields++
	case tag == TagMatrix, tag == TagMatrixPrecise:
		if m := l.bank.Matrix(l.loadedMatrices); m != nil {
			if err := m.load(s, tag == TagMatrixPrecise); err != nil {
				return fmt.Errorf("matrix %d: %w", l.loadedMatrices, err)
			}
		} else {
			l.bankOverflow = true
		}
		l.loadedMatrices++
	case tag == TagColorTransform:
		if c := l.bank.ColorTransform(l.loadedColorTransforms); c != nil {
			if err := c.load(s); err != nil {
				return fmt.Errorf("color transform %d: %w", l.loadedColorTransforms, err)
			}
		} else {
			l.bankOverflow = true
		}
		l.loadedColorTransforms++
	case tag == TagExtraMatrixBank:
		if l.bankOverflow || !l.bankFull() {
			return fmt.Errorf("%w: matrix bank %d closed with %d/%d matrices, %d/%d color transforms",
				ErrCountMismatch, len(swf.matrixBanks)-1,
				l.loadedMatrices, l.bank.MatricesCount(),
				l.loadedColorTransforms, l.bank.ColorTransformsCount())
		}
		counts, err := s.ReadShortArray(2)
		if err != nil {
			return fmt.Errorf("extra matrix bank: %w", err)
		}
		l.bank = NewMatrixBank(int(counts[0]), int(counts[1]))
		swf.matrixBanks = append(swf.matrixBanks, l.bank)
		l.loadedMatrices, l.loadedColorTransforms = 0, 0
	case tag == TagMovieClipModifiers:
		count, err := s.ReadUnsignedShort()
		if err != nil {
			return fmt.Errorf("movie clip modifiers: %w", err)
		}
		swf.modifiers = make([]*MovieClipModifierOriginal, count)
		for i := range swf.modifiers {
			swf.modifiers[i] = &MovieClipModifierOriginal{}
		}
		l.loadedModifiers = 0
	case tag.IsModifierState():
		if l.loadedModifiers >= len(swf.modifiers) {
			return fmt.Errorf("%w: modifiers, declared %d", ErrTooManyObjects, len(swf.modifiers))
		}
		if err := swf.modifiers[l.loadedModifiers].load(s, tag); err != nil {
			return err
		}
		l.loadedModifiers++
	case tag == TagUseLowresTexture:
		swf.UseLowresTexture = true
	case tag == TagUseExternalTexture:
		swf.UseExternalTexture = true
	case tag == TagUseUncommonResolution:
		swf.UseHighresTexture = true
		swf.UseUncommonResolution = true

		path, lowres, err := UncommonResolutionPath(l.path, swf.highresSuffix, swf.lowresSuffix, swf.opts.TextureExtension)
		if err != nil {
			return err
		}
		if lowres {
			swf.UseLowresTexture = true
		}
		swf.uncommonResolutionTexturePath = path
	case tag == TagExternalFilesSuffixes:
		highres, _, err := s.ReadASCII()
		if err != nil {
			return fmt.Errorf("external files suffixes: %w", err)
		}
		lowres, _, err := s.ReadASCII()
		if err != nil {
			return fmt.Errorf("external files suffixes: %w", err)
		}
		swf.highresSuffix, swf.lowresSuffix = highres, lowres
		swf.hasExternalSuffixes = true
	default:
		swf.reportUnsupported(tag, length, "")
	}
	return nil
}

func (l *tagLoader) bankFull() bool {
	return l.loadedMatrices == l.bank.MatricesCount() &&
		l.loadedColorTransforms == l.bank.ColorTransformsCount()
}

func (l *tagLoader) checkCounts(swf *SupercellSWF) error {
	if l.isTextureFile {
		if l.loadedTextures != len(swf.textures) {
			return fmt.Errorf("%w: loaded %d textures, declared %d",
				ErrCountMismatch, l.loadedTextures, len(swf.textures))
		}
		return nil
	}

	switch {
	case l.bankOverflow || !l.bankFull():
		return fmt.Errorf("%w: matrix bank %d", ErrCountMismatch, len(swf.matrixBanks)-1)
	case l.loadedMovieClips != len(swf.movieClips):
		return fmt.Errorf("%w: loaded %d movie clips, declared %d",
			ErrCountMismatch, l.loadedMovieClips, len(swf.movieClips))
	case l.loadedShapes != len(swf.shapes):
		return fmt.Errorf("%w: loaded %d shapes, declared %d",
			ErrCountMismatch, l.loadedShapes, len(swf.shapes))
	case l.loadedTextFields != len(swf.textFields):
		return fmt.Errorf("%w: loaded %d text fields, declared %d",
			ErrCountMismatch, l.loadedTextFields, len(swf.textFields))
	}
	return nil
}

// reportUnsupported records a skipped tag. context names the owning record, "" at top level.
func (swf *SupercellSWF) reportUnsupported(tag Tag, length int32, context string) {
	d := Diagnostic{Filename: swf.filename, Context: context, Tag: tag, Length: length}
	swf.diagnostics = append(swf.diagnostics, d)
	swf.log.Warn("unsupported tag",
		zap.String("file", d.Filename),
		zap.Stringer("tag", tag),
		zap.Int32("length", length),
		zap.String("context", context))
}

func (swf *SupercellSWF) readFontName(s *bytestream.Stream) (string, bool, error) {
	name, ok, err := s.ReadASCII()
	if err != nil || !ok {
		return name, ok, err
	}
	for _, known := range swf.fontNames {
		if known == name {
			return name, ok, nil
		}
	}
	swf.fontNames = append(swf.fontNames, name)
	return name, ok, nil
}

// buildIndex maps ids to positions. The first occurrence of a duplicated id wins.
func (swf *SupercellSWF) buildIndex() {
	swf.shapeIndex = indexIDs(swf.shapesIDs)
	swf.movieClipIndex = indexIDs(swf.movieClipsIDs)
	swf.textFieldIndex = indexIDs(swf.textFieldsIDs)

	ids := make([]uint16, len(swf.modifiers))
	for i, m := range swf.modifiers {
		ids[i] = m.id
	}
	swf.modifierIndex = indexIDs(ids)
}

func indexIDs(ids []uint16) map[uint16]int {
	index := make(map[uint16]int, len(ids))
	for i, id := range ids {
		if _, ok := index[id]; !ok {
			index[id] = i
		}
	}
	return index
}

func (swf *SupercellSWF) notFound(what string, id uint16, exportName string) error {
	if exportName != "" {
		return fmt.Errorf("%w: %s id %d in %s needed by export name %s", ErrObjectNotFound, what, id, swf.filename, exportName)
	}
	return fmt.Errorf("%w: %s id %d in %s", ErrObjectNotFound, what, id, swf.filename)
}

// GetOriginalDisplayObject finds an original by id, searching shapes, movie clips,
// text fields and modifiers in that order. exportName only decorates the error.
func (swf *SupercellSWF) GetOriginalDisplayObject(id uint16, exportName string) (DisplayObjectOriginal, error) {
	if i, ok := swf.shapeIndex[id]; ok {
		return swf.shapes[i], nil
	}
	if i, ok := swf.movieClipIndex[id]; ok {
		return swf.movieClips[i], nil
	}
	if i, ok := swf.textFieldIndex[id]; ok {
		return swf.textFields[i], nil
	}
	if i, ok := swf.modifierIndex[id]; ok {
		return swf.modifiers[i], nil
	}
	return nil, swf.notFound("display object", id, exportName)
}

// GetOriginalMovieClip finds a movie clip by id.
func (swf *SupercellSWF) GetOriginalMovieClip(id uint16, exportName string) (*MovieClipOriginal, error) {
	if i, ok := swf.movieClipIndex[id]; ok {
		return swf.movieClips[i], nil
	}
	return nil, swf.notFound("movie clip", id, exportName)
}

// GetExportedMovieClip finds a movie clip by export name.
func (swf *SupercellSWF) GetExportedMovieClip(name string) (*MovieClipOriginal, error) {
	for _, export := range swf.exports {
		if export.Name == name {
			return swf.GetOriginalMovieClip(export.ID, name)
		}
	}
	return nil, fmt.Errorf("%w: export name %s in %s", ErrObjectNotFound, name, swf.filename)
}

// Filename returns the path of the primary file.
func (swf *SupercellSWF) Filename() string { return swf.filename }

// TexturePath returns the external texture file that was loaded, or "".
func (swf *SupercellSWF) TexturePath() string { return swf.texturePath }

// UncommonResolutionTexturePath returns the texture file picked by USE_UNCOMMON_RESOLUTION.
func (swf *SupercellSWF) UncommonResolutionTexturePath() string {
	return swf.uncommonResolutionTexturePath
}

// ExternalFilesSuffixes returns the highres and lowres suffixes in effect.
func (swf *SupercellSWF) ExternalFilesSuffixes() (highres, lowres string) {
	return swf.highresSuffix, swf.lowresSuffix
}

func (swf *SupercellSWF) ShapesCount() int     { return len(swf.shapes) }
func (swf *SupercellSWF) MovieClipsCount() int { return len(swf.movieClips) }
func (swf *SupercellSWF) TexturesCount() int   { return len(swf.textures) }
func (swf *SupercellSWF) TextFieldsCount() int { return len(swf.textFields) }
func (swf *SupercellSWF) ModifiersCount() int  { return len(swf.modifiers) }
func (swf *SupercellSWF) ExportsCount() int    { return len(swf.exports) }

func (swf *SupercellSWF) ShapesIDs() []uint16     { return swf.shapesIDs }
func (swf *SupercellSWF) MovieClipsIDs() []uint16 { return swf.movieClipsIDs }
func (swf *SupercellSWF) TextFieldsIDs() []uint16 { return swf.textFieldsIDs }

func (swf *SupercellSWF) Shapes() []*ShapeOriginal                { return swf.shapes }
func (swf *SupercellSWF) MovieClips() []*MovieClipOriginal        { return swf.movieClips }
func (swf *SupercellSWF) Textures() []*SWFTexture                 { return swf.textures }
func (swf *SupercellSWF) TextFields() []*TextFieldOriginal        { return swf.textFields }
func (swf *SupercellSWF) Modifiers() []*MovieClipModifierOriginal { return swf.modifiers }

// Texture returns the texture at index, or nil when out of range.
func (swf *SupercellSWF) Texture(index int) *SWFTexture {
	if index < 0 || index >= len(swf.textures) {
		return nil
	}
	return swf.textures[index]
}

// MatrixBank returns the bank at index, or nil when out of range.
func (swf *SupercellSWF) MatrixBank(index int) *MatrixBank {
	if index < 0 || index >= len(swf.matrixBanks) {
		return nil
	}
	return swf.matrixBanks[index]
}

// MatrixBanks returns all banks; bank 0 comes from the header.
func (swf *SupercellSWF) MatrixBanks() []*MatrixBank { return swf.matrixBanks }

// Exports returns the export table in file order.
func (swf *SupercellSWF) Exports() []Export { return swf.exports }

// ExportNames returns the export names in file order.
func (swf *SupercellSWF) ExportNames() []string {
	names := make([]string, len(swf.exports))
	for i, e := range swf.exports {
		names[i] = e.Name
	}
	return names
}

// FontNames returns the distinct font names referenced by text fields.
func (swf *SupercellSWF) FontNames() []string { return swf.fontNames }

// Diagnostics returns the unsupported tags skipped during load.
func (swf *SupercellSWF) Diagnostics() []Diagnostic { return swf.diagnostics }
