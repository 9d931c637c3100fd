package sanitize

import (
	"strings"
	"testing"
)

func TestPlainTextPassesThrough(t *testing.T) {
	cases := []string{
		"hello world",
		"this is an ordinary sentence.",
		"several words, none of them mathematical",
	}
	for _, in := range cases {
		s := New()
		if got := s.ProcessChunk(in); got != in {
			t.Errorf("ProcessChunk(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestEmptyChunk(t *testing.T) {
	s := New()
	if got := s.ProcessChunk(""); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestMathPhraseWrapping(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"alpha^2", `$\alpha^2$`},
		{"hello", "hello"},
		{"x=y", "$x=y$"},
		{"alpha", `$\alpha$`},
		{"the value alpha^2 is large.", `the value $\alpha^2$ is large.`},
	}
	for _, tc := range cases {
		s := New()
		if got := s.ProcessChunk(tc.in); got != tc.want {
			t.Errorf("ProcessChunk(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWrappedOutputNotRewrapped(t *testing.T) {
	first := New().ProcessChunk("alpha^2")
	second := New().ProcessChunk(first)
	if second != first {
		t.Fatalf("re-processing wrapped output changed it: %q -> %q", first, second)
	}
}

func TestNormalizationInsideMathContext(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"$alpha + beta$", `$\alpha + \beta$`},
		{`$\alpha + \beta$`, `$\alpha + \beta$`},
		{"$$alpha$$", `$$\alpha$$`},
		{"$E = mc^2$", "$E = mc^2$"},
	}
	for _, tc := range cases {
		s := New()
		if got := s.ProcessChunk(tc.in); got != tc.want {
			t.Errorf("ProcessChunk(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapedCommandSplitAfterBackslash(t *testing.T) {
	s := New()
	out := s.ProcessChunk(`$\`) + s.ProcessChunk(`alpha$`)
	if out != `$\alpha$` {
		t.Fatalf("expected %q, got %q", `$\alpha$`, out)
	}
}

func TestFencedCodeInviolable(t *testing.T) {
	body := "x := alpha^2 // **\n$price = 10\n"
	in := "```go\n" + body + "```"
	s := New()
	got := s.ProcessChunk(in)
	if got != in {
		t.Fatalf("code block was altered:\n in: %q\nout: %q", in, got)
	}
}

func TestInlineCodeInviolable(t *testing.T) {
	in := "run `alpha^2` now"
	s := New()
	if got := s.ProcessChunk(in); got != in {
		t.Fatalf("inline code was altered: %q -> %q", in, got)
	}
}

func TestCrossChunkCodePreservation(t *testing.T) {
	whole := "```go\nx := alpha^2 // **\n```\ndone\n"
	s := New()
	want := s.ProcessChunk(whole) + s.Flush()

	for i := 1; i < len(whole); i++ {
		s := New()
		got := s.ProcessChunk(whole[:i]) + s.ProcessChunk(whole[i:]) + s.Flush()
		if got != want {
			t.Fatalf("split at %d diverged:\nwant %q\n got %q", i, want, got)
		}
	}
}

func TestCrossChunkCodeThreeWaySplit(t *testing.T) {
	whole := "```\nbeta = gamma**2\n```"
	s := New()
	want := s.ProcessChunk(whole) + s.Flush()

	for i := 1; i < len(whole)-1; i++ {
		for j := i + 1; j < len(whole); j++ {
			s := New()
			got := s.ProcessChunk(whole[:i]) + s.ProcessChunk(whole[i:j]) + s.ProcessChunk(whole[j:]) + s.Flush()
			if got != want {
				t.Fatalf("split at %d,%d diverged:\nwant %q\n got %q", i, j, want, got)
			}
		}
	}
}

func TestStrayMarkerRemoved(t *testing.T) {
	s := New()
	if got := s.ProcessChunk("**\n"); got != "\n" {
		t.Fatalf("expected stray pair dropped, got %q", got)
	}
}

func TestBoldPairWithContentKept(t *testing.T) {
	s := New()
	in := "**bold**\n"
	if got := s.ProcessChunk(in); got != in {
		t.Fatalf("non-stray pair was altered: %q -> %q", in, got)
	}
}

func TestStrayMarkerAcrossChunks(t *testing.T) {
	s := New()
	out := s.ProcessChunk("**") + s.ProcessChunk("\n")
	if out != "\n" {
		t.Fatalf("expected deferred stray pair dropped, got %q", out)
	}

	s = New()
	out = s.ProcessChunk("**") + s.ProcessChunk("bold**\n")
	if out != "**bold**\n" {
		t.Fatalf("expected deferred pair kept, got %q", out)
	}
}

func TestStrayMarkerPairItselfSplit(t *testing.T) {
	s := New()
	out := s.ProcessChunk("*") + s.ProcessChunk("*") + s.ProcessChunk(" ") + s.ProcessChunk("\nrest")
	if out != "\nrest" {
		t.Fatalf("expected split pair classified stray, got %q", out)
	}

	s = New()
	out = s.ProcessChunk("*") + s.ProcessChunk("*") + s.ProcessChunk("\n")
	if out != "\n" {
		t.Fatalf("expected split pair before newline dropped, got %q", out)
	}

	s = New()
	out = s.ProcessChunk("*") + s.ProcessChunk("*bold**\n")
	if out != "**bold**\n" {
		t.Fatalf("expected split non-stray pair kept, got %q", out)
	}
}

func TestLoneAsteriskAcrossChunksKept(t *testing.T) {
	s := New()
	out := s.ProcessChunk("*") + s.ProcessChunk(" item\n")
	if out != "* item\n" {
		t.Fatalf("expected bullet kept, got %q", out)
	}

	s = New()
	out = s.ProcessChunk("*") + s.Flush()
	if out != "*" {
		t.Fatalf("expected lone asterisk emitted at stream end, got %q", out)
	}
}

func TestFlushEmitsUnresolvedMarker(t *testing.T) {
	s := New()
	out := s.ProcessChunk("**") + s.Flush()
	if out != "**" {
		t.Fatalf("expected pending marker emitted at stream end, got %q", out)
	}
}

func TestReasoningBlockRemoved(t *testing.T) {
	s := New()
	got := s.ProcessChunk("before<reasoning>secret</reasoning>after")
	if got != "beforeafter" {
		t.Fatalf("expected %q, got %q", "beforeafter", got)
	}
}

func TestReasoningBlockAcrossChunks(t *testing.T) {
	s := New()
	var out strings.Builder
	for _, chunk := range []string{"Hello <reas", "oning>secret</reas", "oning>world!"} {
		out.WriteString(s.ProcessChunk(chunk))
	}
	out.WriteString(s.Flush())
	if got := out.String(); got != "Hello world!" {
		t.Fatalf("expected %q, got %q", "Hello world!", got)
	}
}

func TestReasoningLoneCloseTagDropped(t *testing.T) {
	s := New()
	if got := s.ProcessChunk("tail</reasoning>rest"); got != "tailrest" {
		t.Fatalf("expected lone close tag dropped, got %q", got)
	}
}

func TestCustomReasoningTags(t *testing.T) {
	s := NewWithTags("<think>", "</think>")
	if got := s.ProcessChunk("a<think>b</think>c"); got != "ac" {
		t.Fatalf("expected %q, got %q", "ac", got)
	}
}

func TestFlagExclusivity(t *testing.T) {
	chunks := []string{
		"text $x$ and `code` here ",
		"```go\n",
		"alpha\n```",
		" $$y",
		"$$ done",
	}
	s := New()
	for _, c := range chunks {
		_ = s.ProcessChunk(c)
		if s.inCodeBlock && s.inInlineCode {
			t.Fatalf("both code flags set after %q", c)
		}
		if s.inInlineMath && s.inBlockMath {
			t.Fatalf("both math flags set after %q", c)
		}
		if (s.inCodeBlock || s.inInlineCode) && (s.inInlineMath || s.inBlockMath) {
			t.Fatalf("code and math context both open after %q", c)
		}
	}
}

func TestUnterminatedContextPersists(t *testing.T) {
	s := New()
	_ = s.ProcessChunk("```\nunclosed")
	if !s.inCodeBlock {
		t.Fatal("expected code block context to persist past chunk end")
	}
	got := s.ProcessChunk(" alpha^2 ")
	if got != " alpha^2 " {
		t.Fatalf("content in open code block was altered: %q", got)
	}
}

func TestDollarInsideCodeIgnored(t *testing.T) {
	s := New()
	in := "`$10`"
	if got := s.ProcessChunk(in); got != in {
		t.Fatalf("dollar inside inline code was treated as math: %q", got)
	}
	if s.inInlineMath || s.inBlockMath {
		t.Fatal("math flag opened inside code span")
	}
}
