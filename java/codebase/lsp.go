package codebase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/jig/java/classpath"
	"github.com/dhamidi/jig/java/javadoc"
	"github.com/dhamidi/jig/java/lexer"
	"github.com/dhamidi/jig/java/rank"
	"github.com/dhamidi/jig/java/types"
	"github.com/dhamidi/jig/project"
)

const lsName = "jig"

type LSPServer struct {
	codebase *Codebase
	provider *classpath.Provider
	watcher  *FileWatcher
	handler  protocol.Handler
	server   *server.Server
	version  string
}

func NewLSPServer(version string) *LSPServer {
	ls := &LSPServer{
		version: version,
	}

	ls.handler = protocol.Handler{
		Initialize:                ls.initialize,
		Initialized:               ls.initialized,
		Shutdown:                  ls.shutdown,
		SetTrace:                  ls.setTrace,
		TextDocumentDidOpen:       ls.textDocumentDidOpen,
		TextDocumentDidChange:     ls.textDocumentDidChange,
		TextDocumentDidClose:      ls.textDocumentDidClose,
		TextDocumentDidSave:       ls.textDocumentDidSave,
		TextDocumentCompletion:    ls.textDocumentCompletion,
		TextDocumentHover:         ls.textDocumentHover,
		TextDocumentSignatureHelp: ls.textDocumentSignatureHelp,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	layout, err := project.LoadFrom(rootDir)
	if err != nil {
		return nil, err
	}

	var provider types.StubProvider
	if p, perr := classpath.New(layout.ProviderRoots()...); perr != nil {
		log.Errorf("classpath: %v", perr)
	} else {
		ls.provider = p
		provider = p
	}

	ls.codebase = New(layout.Root, provider)
	ls.codebase.Scan = layout.ScanOptions()

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}
	capabilities.HoverProvider = true
	capabilities.SignatureHelpProvider = &protocol.SignatureHelpOptions{
		TriggerCharacters: []string{"(", ","},
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
	if _, err := ls.codebase.ScanAll(context.Background()); err != nil {
		log.Errorf("initial scan: %v", err)
	}
	watcher, err := NewFileWatcher(ls.codebase)
	if err != nil {
		log.Errorf("watcher: %v", err)
		return nil
	}
	if err := watcher.Start(); err != nil {
		log.Errorf("watcher: %v", err)
		return nil
	}
	ls.watcher = watcher
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	if ls.provider != nil {
		ls.provider.Close()
		ls.provider = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil
	}
	ls.codebase.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.codebase.UpdateFile(path, []byte(whole.Text))
		}
	}
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil
	}
	if params.Text != nil {
		ls.codebase.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.codebase.ScanFile(path); err != nil {
		log.Warningf("rescan %s: %v", path, err)
	}
	return nil
}

func (ls *LSPServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil, nil
	}
	file := ls.codebase.File(path)
	if file == nil {
		return nil, nil
	}
	src := file.Analysis.Source

	offset := positionToOffset(src, params.Position)
	prefix := PrefixAt(src, offset)
	candidates := ls.codebase.CompletionsAt(path, offset, prefix)
	if len(candidates) == 0 {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(candidates))
	for i, c := range candidates {
		kind := completionItemKind(c.Kind)
		// Clients sort on their own; SortText pins the ranking order.
		sortText := fmt.Sprintf("%04d", i)
		item := protocol.CompletionItem{
			Label:    c.Label,
			Kind:     &kind,
			SortText: &sortText,
		}
		if c.Detail != "" {
			detail := c.Detail
			item.Detail = &detail
		}
		if c.Documentation != "" {
			if text := javadoc.Format(javadoc.Parse(c.Documentation)); text != "" {
				item.Documentation = protocol.MarkupContent{
					Kind:  protocol.MarkupKindMarkdown,
					Value: text,
				}
			}
		}
		if c.InsertText != "" {
			insert := c.InsertText
			format := protocol.InsertTextFormatSnippet
			item.InsertText = &insert
			item.InsertTextFormat = &format
		}
		for _, e := range c.Edits {
			item.AdditionalTextEdits = append(item.AdditionalTextEdits, protocol.TextEdit{
				Range: protocol.Range{
					Start: offsetToPosition(src, e.Start),
					End:   offsetToPosition(src, e.End),
				},
				NewText: e.Text,
			})
		}
		items = append(items, item)
	}

	return items, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil, nil
	}
	file := ls.codebase.File(path)
	if file == nil {
		return nil, nil
	}
	an := file.Analysis
	src := an.Source

	offset := positionToOffset(src, params.Position)
	ti := an.TokenContaining(offset)
	if ti < 0 || an.Tokens[ti].Kind != lexer.TokenIdent {
		return nil, nil
	}
	tok := an.Tokens[ti]

	display := ls.codebase.TypeAt(path, tok.Span.End.Offset)
	if display == "" {
		return nil, nil
	}

	rng := spanToRange(src, tok.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: "```java\n" + display + "\n```",
		},
		Range: &rng,
	}, nil
}

func (ls *LSPServer) textDocumentSignatureHelp(ctx *glsp.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil || ls.codebase == nil {
		return nil, nil
	}
	file := ls.codebase.File(path)
	if file == nil {
		return nil, nil
	}

	offset := positionToOffset(file.Analysis.Source, params.Position)
	sig := ls.codebase.SignatureAt(path, offset)
	if sig == nil {
		return nil, nil
	}

	signatures := make([]protocol.SignatureInformation, 0, len(sig.Overloads))
	for _, o := range sig.Overloads {
		info := protocol.SignatureInformation{Label: o.Label}
		for _, p := range o.Params {
			info.Parameters = append(info.Parameters, protocol.ParameterInformation{Label: p})
		}
		signatures = append(signatures, info)
	}

	active := protocol.UInteger(sig.Active)
	activeArg := protocol.UInteger(sig.ActiveArg)
	return &protocol.SignatureHelp{
		Signatures:      signatures,
		ActiveSignature: &active,
		ActiveParameter: &activeArg,
	}, nil
}

func completionItemKind(kind rank.Kind) protocol.CompletionItemKind {
	switch kind {
	case rank.KindMethod:
		return protocol.CompletionItemKindMethod
	case rank.KindConstructor:
		return protocol.CompletionItemKindConstructor
	case rank.KindEnumConstant:
		return protocol.CompletionItemKindEnumMember
	case rank.KindField:
		return protocol.CompletionItemKindField
	case rank.KindVariable:
		return protocol.CompletionItemKindVariable
	case rank.KindClass:
		return protocol.CompletionItemKindClass
	case rank.KindPackage:
		return protocol.CompletionItemKindModule
	case rank.KindSnippet:
		return protocol.CompletionItemKindSnippet
	case rank.KindKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}

// positionToOffset converts an LSP position, whose character counts
// UTF-16 code units, to a byte offset into src.
func positionToOffset(src []byte, pos protocol.Position) int {
	offset := 0
	for line := protocol.UInteger(0); line < pos.Line && offset < len(src); offset++ {
		if src[offset] == '\n' {
			line++
		}
	}
	units := int(pos.Character)
	for units > 0 && offset < len(src) && src[offset] != '\n' {
		r, size := utf8.DecodeRune(src[offset:])
		offset += size
		units -= utf16.RuneLen(r)
	}
	return offset
}

func offsetToPosition(src []byte, offset int) protocol.Position {
	if offset > len(src) {
		offset = len(src)
	}
	var pos protocol.Position
	for i := 0; i < offset; {
		r, size := utf8.DecodeRune(src[i:])
		i += size
		if r == '\n' {
			pos.Line++
			pos.Character = 0
		} else {
			pos.Character += protocol.UInteger(utf16.RuneLen(r))
		}
	}
	return pos
}

func spanToRange(src []byte, span lexer.Span) protocol.Range {
	return protocol.Range{
		Start: offsetToPosition(src, span.Start.Offset),
		End:   offsetToPosition(src, span.End.Offset),
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

func syncKindPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
