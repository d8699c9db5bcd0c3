// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	// AlwaysRejectRunes contains runes that are not safe to use with network shares,
	// and '/' which would have the receiver create subdirectories.
	AlwaysRejectRunes = `"*/:<>?|\`

	runeSpatium = '\u2009' // thin space, common in typeset names
)

// Not all runes in unicode.PrintRanges are suitable for filenames.
var excludedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2028, Hi: 0x202f, Stride: 1}, // line and paragraph separators, embeddings
		{Lo: 0xfff0, Hi: 0xffff, Stride: 1}, // specials, including U+FFFD
	},
}

// FilenamePolicy decides which names of selected files may be sent.
//
// The zero value rejects only names that a receiving server cannot store safely:
// control characters, separators, and AlwaysRejectRunes.
// Filenames are never transliterated, they are sent as given or not at all.
type FilenamePolicy struct {
	// If not nil, every rune must be in one of these.
	RestrictTo []*unicode.RangeTable

	// If not nil, names must be in this normalization form. Most of the Internet is in NFC.
	Form *norm.Form
}

// Check returns a *FilenameError if 'name' is not acceptable.
func (p *FilenamePolicy) Check(name string) error {
	if name == "" {
		return &FilenameError{Name: name, Reason: "empty"}
	}
	if p == nil {
		return nil
	}
	if p.Form != nil && !p.Form.IsNormalString(name) {
		return &FilenameError{Name: name, Reason: "not in the required normalization form"}
	}

	for _, r := range name {
		if p.RestrictTo != nil && !unicode.In(r, p.RestrictTo...) {
			return &FilenameError{Name: name, Reason: fmt.Sprintf("%U is outside the permitted ranges", r)}
		}
		switch {
		case r == runeSpatium:
			continue
		case r <= unicode.MaxLatin1 && strings.ContainsRune(AlwaysRejectRunes, r),
			unicode.Is(excludedRunes, r),
			!unicode.IsPrint(r): // the only space in IsPrint is U+0020
			return &FilenameError{Name: name, Reason: fmt.Sprintf("%U is not allowed", r)}
		}
	}
	return nil
}

// Accepts is Check without the details.
func (p *FilenamePolicy) Accepts(name string) bool {
	return p.Check(name) == nil
}

// ParseRuneRanges translates space-delimited ranges of code points into a unicode.RangeTable.
//
// The format of one range is as follows, with 'stride' being 1 if left out:
//  <low>-<high>[:<stride>]
// Bounds are hexadecimal and can carry a prefix "U+" or "0x", like in "U+0020-U+007E".
// Ranges must not overlap, and must not cross U+FFFF.
func ParseRuneRanges(str string) (*unicode.RangeTable, error) {
	fields := strings.Fields(str)
	if len(fields) == 0 {
		return nil, errors.New("no ranges given")
	}

	ranges := make([][3]uint32, 0, len(fields))
	for _, field := range fields {
		bounds, strideStr, hasStride := strings.Cut(field, ":")
		lowStr, highStr, ok := strings.Cut(bounds, "-")
		if !ok {
			lowStr, highStr, ok = strings.Cut(bounds, "–") // en dash, from copy & paste
		}
		if !ok {
			return nil, errors.Errorf("range %q: expected <low>-<high>", field)
		}

		low, err := parseCodePoint(lowStr)
		if err != nil {
			return nil, errors.Wrapf(err, "range %q", field)
		}
		high, err := parseCodePoint(highStr)
		if err != nil {
			return nil, errors.Wrapf(err, "range %q", field)
		}
		if high < low {
			return nil, errors.Errorf("range %q: upper bound below lower bound", field)
		}

		stride := uint64(1)
		if hasStride {
			stride, err = strconv.ParseUint(strideStr, 10, 16)
			if err != nil || stride == 0 {
				return nil, errors.Errorf("range %q: invalid stride", field)
			}
		}

		ranges = append(ranges, [3]uint32{low, high, uint32(stride)})
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i][0] < ranges[j][0] })

	rt := &unicode.RangeTable{}
	for i, r := range ranges {
		if i > 0 && r[0] <= ranges[i-1][1] {
			return nil, errors.Errorf("ranges overlap at %U", r[0])
		}

		switch {
		case r[1] <= math.MaxUint16:
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r[0]), Hi: uint16(r[1]), Stride: uint16(r[2])})
			if r[1] <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
		case r[0] > math.MaxUint16:
			rt.R32 = append(rt.R32, unicode.Range32{Lo: r[0], Hi: r[1], Stride: r[2]})
		default:
			return nil, errors.Errorf("range %U-%U crosses U+FFFF, split it", r[0], r[1])
		}
	}

	return rt, nil
}

func parseCodePoint(s string) (uint32, error) {
	for _, prefix := range []string{"U+", "u+", "0x", "0X"} {
		s = strings.TrimPrefix(s, prefix)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Errorf("%q is not a code point", s)
	}
	if v > unicode.MaxRune {
		return 0, errors.Errorf("%X is beyond the last code point", v)
	}
	return uint32(v), nil
}
