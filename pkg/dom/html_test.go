package dom

import "testing"

func TestRender(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("div")
	doc.SetAttribute(root, "id", "main")
	doc.SetAttribute(root, "hidden", "")
	doc.SetStyle(root, "color", "red")
	doc.SetStyle(root, "border", "0")

	doc.AppendChild(root, doc.CreateTextNode("a < b & c"))
	doc.AppendChild(root, doc.CreateElement("br"))
	doc.AppendChild(root, doc.CreateComment("x--y"))
	link := doc.CreateElement("a")
	doc.SetAttribute(link, "title", `say "hi"`)
	doc.AppendChild(root, link)

	want := `<div id="main" hidden style="border: 0; color: red;">a &lt; b &amp; c<br><!--x- -y--><a title="say &quot;hi&quot;"></a></div>`
	if got := Render(root); got != want {
		t.Errorf("Render =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderSVGIsNotVoid(t *testing.T) {
	doc := NewDocument()
	svg := doc.CreateElementNS("http://www.w3.org/2000/svg", "svg")
	doc.AppendChild(svg, doc.CreateElementNS("http://www.w3.org/2000/svg", "source"))

	if got, want := Render(svg), "<svg><source></source></svg>"; got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
