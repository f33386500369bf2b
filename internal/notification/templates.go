package notification

import "html/template"

const layoutHead = `<!DOCTYPE html><html lang="id"><body style="font-family:Arial,sans-serif;color:#1f2937;line-height:1.5">`
const layoutFoot = `<p style="color:#6b7280;font-size:12px">Email ini dikirim otomatis, mohon tidak membalas.{{if .AppURL}} Buka <a href="{{.AppURL}}">{{.AppURL}}</a> untuk detail.{{end}}</p></body></html>`

var acceptedTemplate = template.Must(template.New("accepted").Parse(layoutHead + `
<h2>Selamat, {{.Name}}!</h2>
<p>Lamaran Anda untuk posisi <strong>{{.JobTitle}}</strong> di <strong>{{.CompanyName}}</strong> telah <strong>diterima</strong>.</p>
{{if .Message}}<p><strong>Pesan dari recruiter:</strong><br>{{.Message}}</p>{{end}}
{{if .NextSteps}}<p><strong>Langkah selanjutnya:</strong><br>{{.NextSteps}}</p>{{end}}
` + layoutFoot))

var rejectedTemplate = template.Must(template.New("rejected").Parse(layoutHead + `
<h2>Halo, {{.Name}}</h2>
<p>Terima kasih telah melamar posisi <strong>{{.JobTitle}}</strong> di <strong>{{.CompanyName}}</strong>.
Setelah pertimbangan, kami belum dapat melanjutkan lamaran Anda saat ini.</p>
{{if .Message}}<p><strong>Pesan dari recruiter:</strong><br>{{.Message}}</p>{{end}}
{{if .NextSteps}}<p><strong>Saran:</strong><br>{{.NextSteps}}</p>{{end}}
<p>Tetap semangat dan jangan ragu melamar lowongan lain.</p>
` + layoutFoot))

const interviewDetails = `
<table cellpadding="4">
<tr><td>Posisi</td><td><strong>{{.JobTitle}}</strong> - {{.CompanyName}}</td></tr>
<tr><td>Agenda</td><td>{{.Title}}</td></tr>
<tr><td>Waktu</td><td>{{.When}} ({{.Duration}} menit)</td></tr>
<tr><td>Metode</td><td>{{.MeetingType}}</td></tr>
{{if .Online}}<tr><td>Tautan</td><td><a href="{{.MeetingURL}}">{{.MeetingURL}}</a></td></tr>{{else}}<tr><td>Lokasi</td><td>{{.Location}}</td></tr>{{end}}
</table>`

var invitationTemplate = template.Must(template.New("invitation").Parse(layoutHead + `
<h2>Halo, {{.Name}}</h2>
<p>Anda diundang mengikuti interview. Mohon konfirmasi kehadiran melalui aplikasi.</p>
` + interviewDetails + layoutFoot))

var rescheduledTemplate = template.Must(template.New("rescheduled").Parse(layoutHead + `
<h2>Halo, {{.Name}}</h2>
<p>Jadwal interview Anda telah diubah. Mohon konfirmasi ulang kehadiran melalui aplikasi.</p>
` + interviewDetails + layoutFoot))

var cancelledTemplate = template.Must(template.New("cancelled").Parse(layoutHead + `
<h2>Halo, {{.Name}}</h2>
<p>Interview untuk posisi <strong>{{.JobTitle}}</strong> di <strong>{{.CompanyName}}</strong> pada {{.When}} dibatalkan oleh recruiter.</p>
{{if .Reason}}<p>Alasan: {{.Reason}}</p>{{end}}
` + layoutFoot))
