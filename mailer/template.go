package mailer

import (
	"fmt"
	"html/template"
	"strings"
)

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Thank you for your purchase{{if .Name}}, {{.Name}}{{end}}!</h2>
    <p>Your payment for <strong>{{.ProductTitle}}</strong> has been confirmed.</p>
    <p><a href="{{.DownloadURL}}">Download your ebook</a></p>
    <p>The link stays valid, so you can come back to this email anytime.</p>
  </body>
</html>
`))

// BuildConfirmation renders the purchase confirmation email for a recipient.
func BuildConfirmation(to, name, productTitle, downloadURL string) (Message, error) {
	var html strings.Builder
	data := struct {
		Name         string
		ProductTitle string
		DownloadURL  string
	}{name, productTitle, downloadURL}
	if err := confirmationTmpl.Execute(&html, data); err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf(
		"Thank you for your purchase!\n\nYour payment for %q has been confirmed.\nDownload your ebook: %s\n",
		productTitle, downloadURL)

	return Message{
		To:      to,
		Subject: fmt.Sprintf("Your ebook %q is ready", productTitle),
		HTML:    html.String(),
		Text:    text,
	}, nil
}
