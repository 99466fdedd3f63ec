package handler

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"

	"foldertoword/internal/model"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Folder to Word</title>
    <style>
        body { font-family: 'Segoe UI', sans-serif; background: #f2f2f2; margin: 0; padding: 0; }
        .container { max-width: 600px; margin: 5em auto; padding: 2em; background: white;
            box-shadow: 0 0 20px rgba(0,0,0,0.1); border-radius: 12px; text-align: center; }
        h1 { font-size: 2em; margin-bottom: 1em; }
        input[type="file"] { margin: 1.5em 0; font-size: 1.1em; }
        button { padding: 15px 30px; font-size: 1.2em; background-color: #007BFF; color: white;
            border: none; border-radius: 8px; cursor: pointer; }
        button:hover { background-color: #0056b3; }
        .ready { margin-top: 2em; padding: 1em; background: #e8f5e9; border-radius: 8px; }
        .ready a { color: #1b5e20; font-weight: bold; }
    </style>
</head>
<body>
    <div class="container">
        <h1>🖼️ Folder to Word Document</h1>
        <form method="POST" enctype="multipart/form-data">
            <input type="file" name="zipfile" accept=".zip" required>
            <br>
            <button type="submit">Upload &amp; Generate</button>
        </form>
        {{- with .Ready}}
        <div class="ready">
            Your document is ready:
            <a href="/download/{{.DocID}}" download="{{.FileName}}">{{.FileName}}</a>
        </div>
        {{- end}}
    </div>
</body>
</html>
`))

type pageData struct {
	Ready *model.SessionRecord
}

func renderPage(c *fiber.Ctx, data pageData) error {
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}
