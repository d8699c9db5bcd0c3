// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gzupload

import (
	"testing"
	"unicode"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/unicode/norm"
)

type filenameSample struct {
	input    string
	accepted bool
}

func checkFilenameSamples(p *FilenamePolicy, samples []filenameSample) {
	for i := range samples {
		got := filenameSample{samples[i].input, p.Accepts(samples[i].input)}
		So(got, ShouldResemble, samples[i])
	}
}

func TestFilenamePolicy(t *testing.T) {
	Convey("Without a policy", t, FailureContinues, func() {
		var p *FilenamePolicy

		Convey("any name but the empty one is accepted", FailureContinues, func() {
			checkFilenameSamples(p, []filenameSample{
				{"", false},
				{"file.name", true},
				{"Samba?", true},
				{"line\nbreak", true}, // net/http will refuse it
			})
		})
	})

	Convey("The default policy", t, FailureContinues, func() {
		p := &FilenamePolicy{}

		Convey("handles Latin-1 input correctly", FailureContinues, func() {
			checkFilenameSamples(p, []filenameSample{
				{"file.name", true},
				{"the space", true},
				{"line\nbreak", false},
				{"the\tTAB", false},
				{"Samba?", false},
				{"dir/file", false},
				{"not print\x0e.", false},
				{"a null\x00.", false},
				{"start \xb0", false}, {"stray box \xfe", false}, // not UTF-8
			})
		})

		Convey("accepts correct UTF-8 input", FailureContinues, func() {
			checkFilenameSamples(p, []filenameSample{
				{"Döner macht schöner.txt", true},
				{"keyboard → „typewriters’ keylayout“", true},
				{"GENUẞMITTEL Kauﬂäche häuﬁg ǲerba", true},
				{"フプ", true},
				{"thin\u2009space", true},
			})
		})

		Convey("rejects undesired runes", FailureContinues, func() {
			checkFilenameSamples(p, []filenameSample{
				{"feed\u000cform", false},
				{"NEL\u0085", false},
				{"line\u2028", false}, {"paragraph\u2029", false},
				{"no-break\u00a0space", false},
				{"replacement\ufffd", false},
			})
		})

		Convey("tells why a name has been rejected", func() {
			err := p.Check("Samba?")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, `unacceptable filename "Samba?": U+003F is not allowed`)
		})
	})

	Convey("A policy with ranges", t, FailureContinues, func() {
		azOnly := &unicode.RangeTable{
			R16:         []unicode.Range16{{Lo: 0x0061, Hi: 0x007a, Stride: 1}},
			LatinOffset: 1,
		}
		p := &FilenamePolicy{RestrictTo: []*unicode.RangeTable{azOnly}}

		checkFilenameSamples(p, []filenameSample{
			{"azaz", true},
			{"AZ", false},
			{"a.z", false},
		})
	})

	Convey("A policy with a normalization form", t, FailureContinues, func() {
		nfc := norm.NFC
		p := &FilenamePolicy{Form: &nfc}

		checkFilenameSamples(p, []filenameSample{
			{"\u30d7", true},
			{"\u30d5\u309a", false}, // NFD of the above
		})
	})
}

func TestParseRuneRanges(t *testing.T) {
	Convey("ParseRuneRanges", t, func() {
		Convey("reads single ranges", func() {
			rt, err := ParseRuneRanges("0020-007e")
			So(err, ShouldBeNil)
			So(rt.R16, ShouldResemble, []unicode.Range16{{Lo: 0x20, Hi: 0x7e, Stride: 1}})
			So(rt.LatinOffset, ShouldEqual, 1)
			So(unicode.Is(rt, 'a'), ShouldBeTrue)
			So(unicode.Is(rt, 'ä'), ShouldBeFalse)
		})

		Convey("sorts ranges and understands prefixes and strides", func() {
			rt, err := ParseRuneRanges("U+30a0-U+30ff 0x0041-0x005a:2 1f600–1f64f")
			So(err, ShouldBeNil)
			So(rt.R16, ShouldResemble, []unicode.Range16{
				{Lo: 0x41, Hi: 0x5a, Stride: 2},
				{Lo: 0x30a0, Hi: 0x30ff, Stride: 1},
			})
			So(rt.R32, ShouldResemble, []unicode.Range32{{Lo: 0x1f600, Hi: 0x1f64f, Stride: 1}})
			So(rt.LatinOffset, ShouldEqual, 1)
			So(unicode.Is(rt, 'A'), ShouldBeTrue)
			So(unicode.Is(rt, 'B'), ShouldBeFalse)
			So(unicode.Is(rt, 'プ'), ShouldBeTrue)
		})

		Convey("rejects malformed input", func() {
			for _, input := range []string{
				"",
				"0020",
				"zz-007e",
				"007e-0020",
				"0020-007e:0",
				"0020-007e 0070-00ff",
				"fff0-10010",
				"0020-110000",
			} {
				rt, err := ParseRuneRanges(input)
				So(err, ShouldNotBeNil)
				So(rt, ShouldBeNil)
			}
		})
	})
}
