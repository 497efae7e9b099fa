package inbox

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/salojoakim/supplierpriceautomation/internal/domain"
)

const maxMIMEDepth = 10

var errMIMEDepth = errors.New("mensagem com partes aninhadas demais")

// Extensão usada quando o anexo vem sem nome de arquivo reconhecível
var extensionByMediaType = map[string]string{
	"text/csv":                  ".csv",
	"text/tab-separated-values": ".tsv",
	"text/plain":                ".txt",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": ".xlsx",
	"application/vnd.ms-excel.sheet.macroenabled.12":                    ".xlsm",
}

type message struct {
	provider    string
	plain       string
	html        string
	attachments []domain.Document
}

// ReadMessage separa um e-mail salvo (.eml) em corpo e anexos.
// O corpo é o primeiro text/plain fora de anexo; sem ele, o text/html convertido em texto.
func ReadMessage(name, provider string, data []byte) ([]domain.Document, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "erro ao interpretar a mensagem %s", name)
	}

	m := &message{provider: provider}
	if err := m.walk(textproto.MIMEHeader(msg.Header), msg.Body, 0); err != nil {
		return nil, errors.Wrapf(err, "erro ao interpretar a mensagem %s", name)
	}

	body := m.plain
	if strings.TrimSpace(body) == "" {
		body = m.html
	}

	var docs []domain.Document
	if strings.TrimSpace(body) != "" {
		docs = append(docs, domain.Document{
			SourceName: domain.EmailBodySourceName,
			Provider:   provider,
			Kind:       domain.DocumentText,
			Source:     domain.SourceBody,
			Text:       body,
		})
	}
	docs = append(docs, m.attachments...)

	logrus.WithFields(logrus.Fields{
		"file":        name,
		"subject":     decodeWord(msg.Header.Get("Subject")),
		"attachments": len(m.attachments),
	}).Debug("Mensagem lida")

	return docs, nil
}

func (m *message) walk(header textproto.MIMEHeader, body io.Reader, depth int) error {
	if depth > maxMIMEDepth {
		return errMIMEDepth
	}

	mediaType, params, err := mime.ParseMediaType(header.Get("Content-Type"))
	if err != nil {
		mediaType, params = "text/plain", map[string]string{}
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		reader := multipart.NewReader(body, params["boundary"])
		for {
			part, err := reader.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if err := m.walk(part.Header, part, depth+1); err != nil {
				return err
			}
		}
	}

	// multipart.Part já decodifica quoted-printable e remove o cabeçalho
	data, err := io.ReadAll(transferDecoder(header.Get("Content-Transfer-Encoding"), body))
	if err != nil {
		return err
	}

	disposition, dispositionParams, _ := mime.ParseMediaType(header.Get("Content-Disposition"))
	filename := decodeWord(dispositionParams["filename"])
	if filename == "" {
		filename = decodeWord(params["name"])
	}

	switch {
	case disposition == "attachment" || filename != "":
		if disposition == "inline" && strings.HasPrefix(mediaType, "image/") {
			return nil // logos e imagens da assinatura
		}
		m.addAttachment(filename, mediaType, data)

	case mediaType == "text/plain" && m.plain == "":
		m.plain = decodeCharset(data, params["charset"])

	case mediaType == "text/html" && m.html == "":
		m.html = htmlToText(decodeCharset(data, params["charset"]))
	}

	return nil
}

func (m *message) addAttachment(filename, mediaType string, data []byte) {
	if len(data) == 0 {
		return
	}

	if filename == "" {
		filename = "attachment"
	}
	if filepath.Ext(filename) == "" {
		filename += extensionByMediaType[mediaType]
	}

	docs, err := attachmentDocuments(filename, m.provider, data)
	if err != nil {
		m.attachments = append(m.attachments, unsupported(filename, m.provider, err.Error()))
		return
	}
	m.attachments = append(m.attachments, docs...)
}

func transferDecoder(encoding string, r io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

// decodeCharset converte o texto do charset declarado; charset ausente ou desconhecido cai em DecodeText
func decodeCharset(data []byte, charset string) string {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset != "" && charset != "utf-8" && charset != "us-ascii" {
		if enc, err := htmlindex.Get(charset); err == nil {
			if out, err := enc.NewDecoder().Bytes(data); err == nil {
				return string(out)
			}
		}
	}

	text, err := DecodeText(data)
	if err != nil {
		return string(data)
	}
	return text
}

// decodeWord decodifica cabeçalhos RFC 2047 ("=?utf-8?q?Pre=C3=A7os?=")
func decodeWord(s string) string {
	decoder := &mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, err
			}
			return enc.NewDecoder().Reader(input), nil
		},
	}

	out, err := decoder.DecodeHeader(s)
	if err != nil {
		return s
	}
	return out
}

// htmlToText mantém só o texto visível; parágrafos e linhas de tabela viram quebras de linha
func htmlToText(src string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(src))

	var b strings.Builder
	hidden := 0

	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return compactLines(b.String())

		case html.TextToken:
			if hidden > 0 {
				continue
			}
			text := strings.Join(strings.Fields(string(tokenizer.Text())), " ")
			if text == "" {
				continue
			}
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") && !strings.HasSuffix(b.String(), "\t") {
				b.WriteByte(' ')
			}
			b.WriteString(text)

		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "head":
				hidden++
			case "br", "p", "div", "tr", "li", "table", "h1", "h2", "h3", "h4":
				b.WriteByte('\n')
			case "td", "th":
				b.WriteByte('\t')
			}

		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style", "head":
				if hidden > 0 {
					hidden--
				}
			case "p", "div", "table", "h1", "h2", "h3", "h4":
				b.WriteString("\n\n")
			}
		}
	}
}

// compactLines remove espaços nas pontas e deixa no máximo uma linha em branco entre blocos
func compactLines(text string) string {
	var out []string
	blank := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}
