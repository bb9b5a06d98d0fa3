package workspace

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/dhamidi/marksense/completion"
	"github.com/dhamidi/marksense/markup"
)

const lsName = "marksense"

// triggerSuggest asks the editor to open the completion popup again.
const triggerSuggest = "editor.action.triggerSuggest"

var triggerCharacters = []string{"<", "/", ":", "\"", "|", " "}

type LSPServer struct {
	workspace *Workspace
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(ws *Workspace, version string) *LSPServer {
	ls := &LSPServer{
		workspace: ws,
		version:   version,
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentDidSave:    ls.textDocumentDidSave,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: triggerCharacters,
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	stats := ls.workspace.Engine().Store().Snapshot().Stats()
	log.Infof("ready: %d types, %d groups, registry generation %d", stats.Types, stats.Groups, stats.Generation)
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Open(path, params.TextDocument.Text, int32(params.TextDocument.Version))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.Update(path, textChange.Text, int32(params.TextDocument.Version))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.Close(path)
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.Save(path, *params.Text)
	}
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}

	if _, ok := ls.workspace.Text(path); !ok {
		return nil, nil
	}
	return ls.complete(context.Background(), path, params.Position)
}

// complete converts pos and maps the result against one text snapshot.
func (ls *LSPServer) complete(ctx context.Context, path string, pos protocol.Position) (*protocol.CompletionList, error) {
	res, text, err := ls.workspace.CompleteAt(ctx, path, func(text string) int {
		return offsetAt(text, pos)
	})
	if errors.Is(err, completion.ErrCancelled) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return completionList(text, res), nil
}

// completionList converts a result to the protocol. The list is always
// incomplete so the editor asks again on every keystroke.
func completionList(text string, res *completion.Result) *protocol.CompletionList {
	list := &protocol.CompletionList{
		IsIncomplete: true,
		Items:        []protocol.CompletionItem{},
	}
	if res == nil || len(res.Items) == 0 {
		return list
	}

	replace := protocol.Range{
		Start: positionAt(text, res.Anchor),
		End:   positionAt(text, res.Offset),
	}
	filter := res.Context.Filter

	for i, it := range res.Items {
		kind := toProtocolKind(it.Kind)
		detail := it.Detail
		sortText := fmt.Sprintf("%05d", i)
		format := protocol.InsertTextFormatPlainText
		newText := it.InsertText
		if it.CursorOffset >= 0 && it.CursorOffset < len(it.InsertText) {
			format = protocol.InsertTextFormatSnippet
			newText = snippet(it.InsertText, it.CursorOffset)
		}

		item := protocol.CompletionItem{
			Label:            it.Label,
			Kind:             &kind,
			SortText:         &sortText,
			FilterText:       &filter,
			InsertTextFormat: &format,
			TextEdit: protocol.TextEdit{
				Range:   replace,
				NewText: newText,
			},
		}
		if detail != "" {
			item.Detail = &detail
		}
		if it.OnAccept != nil && it.OnAccept(it).Retrigger {
			item.Command = &protocol.Command{
				Title:   "Suggest",
				Command: triggerSuggest,
			}
		}
		list.Items = append(list.Items, item)
	}
	return list
}

var snippetEscaper = strings.NewReplacer(`\`, `\\`, `$`, `\$`, `}`, `\}`)

// snippet places the final tab stop at cursor.
func snippet(text string, cursor int) string {
	return snippetEscaper.Replace(text[:cursor]) + "$0" + snippetEscaper.Replace(text[cursor:])
}

// offsetAt converts a protocol position to a byte offset. Characters
// past the end of the line clamp to the line end.
func offsetAt(text string, pos protocol.Position) int {
	line := int(pos.Line)
	offset := 0
	for ; line > 0; line-- {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
	}
	units := int(pos.Character)
	for i, r := range text[offset:] {
		if units <= 0 || r == '\n' {
			return offset + i
		}
		units -= utf16.RuneLen(r)
	}
	return len(text)
}

// positionAt converts a byte offset to a protocol position, whose
// character counts UTF-16 code units.
func positionAt(text string, offset int) protocol.Position {
	offset = min(max(offset, 0), len(text))
	var line, char int
	for _, r := range text[:offset] {
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += utf16.RuneLen(r)
	}
	return protocol.Position{
		Line:      protocol.UInteger(line),
		Character: protocol.UInteger(char),
	}
}

func toProtocolKind(kind markup.Kind) protocol.CompletionItemKind {
	switch kind {
	case markup.KindTag:
		return protocol.CompletionItemKindClass
	case markup.KindAttribute:
		return protocol.CompletionItemKindProperty
	case markup.KindAttributeValue:
		return protocol.CompletionItemKindValue
	default:
		return protocol.CompletionItemKindText
	}
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
