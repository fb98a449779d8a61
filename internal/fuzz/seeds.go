package fuzztests

import (
	"testing"
)

const (
	maxSeedBytes = 64 << 10
	maxFuzzInput = 1 << 16
)

var scriptSeeds = []string{
	"",
	"el.innerHTML = \"<b>hi</b>\";\n",
	"el.innerHTML = \"onclick=alert(1)\";\n",
	"el.outerHTML = userInput;\n",
	"var s = document.createElement('script'); s.src = url;\n",
	"obj.__proto__ = {};\nobj.__exposedProps__ = {x: 'rw'};\n",
	"el.onclick = function () {};\nel.onload = 'run()';\n",
	"worker.contentScript = \"el.innerHTML = 'onload=x'\";\n",
	"window.DOM_VK_ENTER;\nnode.isElementContentWhitespace;\n",
	"a['inner' + 'HTML'] = b;\n",
	"x = '\\u0061\\x62\\143';\n",
	"function f( {\n",
	"`template ${el.innerHTML = y}`;\n",
	"/* unterminated",
}

var markupSeeds = []string{
	"",
	"<html><body><p>hello</p></body></html>",
	"<iframe src=\"http://example.com/\"></iframe>",
	"<script src=\"chrome://addon/content/main.js\"></script>",
	"<div><span></div>",
	"</p>",
	"<img src=x onerror=alert(1)>",
	"<![CDATA[ <b> ]]>",
	"<!-- <script> -->",
	"<window xmlns=\"http://www.mozilla.org/keymaster/gatekeeper/there.is.only.xul\"><browser src=\"https://a\"/></window>",
}

func addSeeds(f *testing.F, seeds []string) {
	for _, s := range seeds {
		f.Add(clampSeed([]byte(s)))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
