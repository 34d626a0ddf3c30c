// Package swf reads and writes Supercell SWF (.sc) containers: shapes,
// movie-clip timelines, text fields, matrix banks and textures.
package swf

import "fmt"

// Tag identifies a record in the SC tag stream.
type Tag uint8

// Tag values. Values missing from this list are unknown tags.
const (
	TagEOF                       Tag = 0
	TagTexture                   Tag = 1
	TagShape                     Tag = 2
	TagMovieClip                 Tag = 3
	TagShapeDrawBitmapCommand    Tag = 4
	TagMovieClipFrame            Tag = 5
	TagShapeDrawColorFillCommand Tag = 6
	TagTextField                 Tag = 7
	TagMatrix                    Tag = 8
	TagColorTransform            Tag = 9
	TagMovieClip2                Tag = 10
	TagMovieClipFrame2           Tag = 11
	TagMovieClip3                Tag = 12
	TagTimelineIndexes           Tag = 13
	TagMovieClip4                Tag = 14
	TagTextField2                Tag = 15
	TagTexture2                  Tag = 16
	TagShapeDrawBitmapCommand2   Tag = 17
	TagShape2                    Tag = 18
	TagTexture3                  Tag = 19
	TagTextField3                Tag = 20
	TagTextField4                Tag = 21
	TagShapeDrawBitmapCommand3   Tag = 22
	TagUseLowresTexture          Tag = 23
	TagTexture4                  Tag = 24
	TagTextField5                Tag = 25
	TagUseExternalTexture        Tag = 26
	TagTexture5                  Tag = 27
	TagTexture6                  Tag = 28
	TagTexture7                  Tag = 29
	TagUseUncommonResolution     Tag = 30
	TagScalingGrid               Tag = 31
	TagExternalFilesSuffixes     Tag = 32
	TagTextField6                Tag = 33
	TagTexture8                  Tag = 34
	TagMovieClip5                Tag = 35
	TagMatrixPrecise             Tag = 36
	TagMovieClipModifiers        Tag = 37
	TagModifierState2            Tag = 38
	TagModifierState3            Tag = 39
	TagModifierState4            Tag = 40
	TagMatrixBankIndex           Tag = 41
	TagExtraMatrixBank           Tag = 42
	TagTextField7                Tag = 43
	TagTextField8                Tag = 44
	TagKhronosTexture            Tag = 45
	TagTextField9                Tag = 46
	TagCompressedKhronosTexture  Tag = 47
	TagMovieClip6                Tag = 49
)

var tagNames = map[Tag]string{
	TagEOF:                       "EOF",
	TagTexture:                   "TEXTURE",
	TagShape:                     "SHAPE",
	TagMovieClip:                 "MOVIE_CLIP",
	TagShapeDrawBitmapCommand:    "SHAPE_DRAW_BITMAP_COMMAND",
	TagMovieClipFrame:            "MOVIE_CLIP_FRAME",
	TagShapeDrawColorFillCommand: "SHAPE_DRAW_COLOR_FILL_COMMAND",
	TagTextField:                 "TEXT_FIELD",
	TagMatrix:                    "MATRIX",
	TagColorTransform:            "COLOR_TRANSFORM",
	TagMovieClip2:                "MOVIE_CLIP_2",
	TagMovieClipFrame2:           "MOVIE_CLIP_FRAME_2",
	TagMovieClip3:                "MOVIE_CLIP_3",
	TagTimelineIndexes:           "TIMELINE_INDEXES",
	TagMovieClip4:                "MOVIE_CLIP_4",
	TagTextField2:                "TEXT_FIELD_2",
	TagTexture2:                  "TEXTURE_2",
	TagShapeDrawBitmapCommand2:   "SHAPE_DRAW_BITMAP_COMMAND_2",
	TagShape2:                    "SHAPE_2",
	TagTexture3:                  "TEXTURE_3",
	TagTextField3:                "TEXT_FIELD_3",
	TagTextField4:                "TEXT_FIELD_4",
	TagShapeDrawBitmapCommand3:   "SHAPE_DRAW_BITMAP_COMMAND_3",
	TagUseLowresTexture:          "USE_LOWRES_TEXTURE",
	TagTexture4:                  "TEXTURE_4",
	TagTextField5:                "TEXT_FIELD_5",
	TagUseExternalTexture:        "USE_EXTERNAL_TEXTURE",
	TagTexture5:                  "TEXTURE_5",
	TagTexture6:                  "TEXTURE_6",
	TagTexture7:                  "TEXTURE_7",
	TagUseUncommonResolution:     "USE_UNCOMMON_RESOLUTION",
	TagScalingGrid:               "SCALING_GRID",
	TagExternalFilesSuffixes:     "EXTERNAL_FILES_SUFFIXES",
	TagTextField6:                "TEXT_FIELD_6",
	TagTexture8:                  "TEXTURE_8",
	TagMovieClip5:                "MOVIE_CLIP_5",
	TagMatrixPrecise:             "MATRIX_PRECISE",
	TagMovieClipModifiers:        "MOVIE_CLIP_MODIFIERS",
	TagModifierState2:            "MODIFIER_STATE_2",
	TagModifierState3:            "MODIFIER_STATE_3",
	TagModifierState4:            "MODIFIER_STATE_4",
	TagMatrixBankIndex:           "MATRIX_BANK_INDEX",
	TagExtraMatrixBank:           "EXTRA_MATRIX_BANK",
	TagTextField7:                "TEXT_FIELD_7",
	TagTextField8:                "TEXT_FIELD_8",
	TagKhronosTexture:            "KHRONOS_TEXTURE",
	TagTextField9:                "TEXT_FIELD_9",
	TagCompressedKhronosTexture:  "COMPRESSED_KHRONOS_TEXTURE",
	TagMovieClip6:                "MOVIE_CLIP_6",
}

// String returns the tag's wire name, or "TAG_<n>" for unknown values.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TAG_%d", uint8(t))
}

// Known reports whether t belongs to the enumeration.
func (t Tag) Known() bool {
	_, ok := tagNames[t]
	return ok
}

// IsTexture reports whether t carries a texture record.
func (t Tag) IsTexture() bool {
	switch t {
	case TagTexture, TagTexture2, TagTexture3, TagTexture4, TagTexture5,
		TagTexture6, TagTexture7, TagTexture8, TagKhronosTexture, TagCompressedKhronosTexture:
		return true
	}
	return false
}

// IsShape reports whether t carries a shape record.
func (t Tag) IsShape() bool {
	return t == TagShape || t == TagShape2
}

// IsMovieClip reports whether t carries a movie-clip record.
func (t Tag) IsMovieClip() bool {
	switch t {
	case TagMovieClip, TagMovieClip2, TagMovieClip3, TagMovieClip4, TagMovieClip5, TagMovieClip6:
		return true
	}
	return false
}

// IsTextField reports whether t carries a text-field record.
func (t Tag) IsTextField() bool {
	switch t {
	case TagTextField, TagTextField2, TagTextField3, TagTextField4, TagTextField5,
		TagTextField6, TagTextField7, TagTextField8, TagTextField9:
		return true
	}
	return false
}

// IsModifierState reports whether t carries a movie-clip modifier state.
func (t Tag) IsModifierState() bool {
	return t == TagModifierState2 || t == TagModifierState3 || t == TagModifierState4
}

// IsShapeCommand reports whether t is a shape draw-bitmap command.
func (t Tag) IsShapeCommand() bool {
	return t == TagShapeDrawBitmapCommand || t == TagShapeDrawBitmapCommand2 || t == TagShapeDrawBitmapCommand3
}

// HasBlendData reports whether a movie-clip tag stores per-child blend modes.
func (t Tag) HasBlendData() bool {
	return t == TagMovieClip3 || t == TagMovieClip5 || t == TagMovieClip6
}

// HasCustomProperties reports whether a movie-clip tag carries a property list.
func (t Tag) HasCustomProperties() bool {
	return t == TagMovieClip6
}

// HasFrameElements reports whether a movie-clip tag carries the flattened element table.
func (t Tag) HasFrameElements() bool {
	return t.IsMovieClip() && t != TagMovieClip && t != TagMovieClip4
}

// IsSeparatedByTiles reports whether a texture tag stores pixels in 32x32 tiles.
func (t Tag) IsSeparatedByTiles() bool {
	return t == TagTexture5 || t == TagTexture6 || t == TagTexture7
}
