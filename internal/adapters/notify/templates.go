package notify

import (
	"html/template"
	"time"
)

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 UTC") },
}

var staffAlertTemplate = template.Must(template.New("staff_alert").Funcs(funcs).Parse(`<html><body>
<h2>New quote request</h2>
<table>
<tr><th>Name</th><td>{{.Name}}</td></tr>
{{if .Company}}<tr><th>Company</th><td>{{.Company}}</td></tr>{{end}}
<tr><th>Email</th><td>{{.Email}}</td></tr>
<tr><th>Phone</th><td>{{.Phone}}</td></tr>
{{if .Messenger}}<tr><th>Messenger</th><td>{{.Messenger}}</td></tr>{{end}}
{{if .ProductName}}<tr><th>Product</th><td>{{.ProductName}}</td></tr>{{end}}
{{if .Quantity}}<tr><th>Quantity</th><td>{{.Quantity}}</td></tr>{{end}}
<tr><th>Received</th><td>{{datetime .CreatedAt}}</td></tr>
</table>
{{if .ProjectDetails}}<h3>Project details</h3>
<p>{{.ProjectDetails}}</p>{{end}}
<p>Reference: {{.ID}}</p>
</body></html>`))

var confirmationTemplate = template.Must(template.New("confirmation").Funcs(funcs).Parse(`<html><body>
<p>Hello {{.Name}},</p>
<p>Thank you for your quote request{{if .ProductName}} for {{.ProductName}}{{end}}. Our sales team will contact you within one business day.</p>
<p>Reference: {{.ID}}</p>
</body></html>`))

var digestTemplate = template.Must(template.New("digest").Funcs(funcs).Parse(`<html><body>
<h2>Quote requests waiting for a reply</h2>
<ul>
{{range .}}<li>{{datetime .CreatedAt}}: {{.Name}}{{if .Company}} ({{.Company}}){{end}}, {{.Email}}, {{.Phone}}{{if .ProductName}}, {{.ProductName}}{{end}}</li>
{{end}}</ul>
</body></html>`))
