package emailsvc

import (
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujaripavansai28/LMS/core"
	logsvc "github.com/pujaripavansai28/LMS/services/logger"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName: "LMS Test",
		Email:   core.EmailConfig{DefaultFromEmail: mail.Address{Name: "LMS", Address: "noreply@lms.test"}},
	}
}

func TestConsoleServiceMock_SendMessages(t *testing.T) {
	logger := logsvc.NewNop()
	core.ParseEmailTemplates(logger)
	svc := NewConsoleServiceMock(testConfig(), logger)

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Ada", Address: "ada@lms.test"}},
			Subject:      "graded",
			TemplateName: "notification",
			TemplateData: map[string]string{"Name": "Ada", "Message": "Your quiz was graded."},
		},
		&core.EmailMessage{To: []mail.Address{{Address: "bob@lms.test"}}, BodyStr: "plain"},
		&core.EmailMessage{Subject: "nobody to send to", BodyStr: "lost"},
		&core.EmailMessage{To: []mail.Address{{Address: "eve@lms.test"}}},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].TextContent, "Hi Ada")
	assert.Contains(t, sent[0].TextContent, "Your quiz was graded.")
	assert.Contains(t, sent[0].HTMLContent, "Your quiz was graded.")
	assert.Equal(t, "plain", sent[1].TextContent)
	assert.Empty(t, sent[1].HTMLContent)
}

func TestConsoleService_Format(t *testing.T) {
	svc := NewConsoleService(testConfig(), logsvc.NewNop())
	body, err := svc.format(core.EmailMessage{
		To:          []mail.Address{{Name: "Ada", Address: "ada@lms.test"}},
		Subject:     "hello",
		TextContent: "text body",
	})
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: [LMS Test] hello")
	assert.Contains(t, body, `To: "Ada" <ada@lms.test>`)
	assert.Contains(t, body, "text body")
	assert.NotContains(t, body, "text/html")
}

func TestNew(t *testing.T) {
	conf := testConfig()
	assert.IsType(t, &ConsoleService{}, New(conf, logsvc.NewNop()))

	conf.Email.SendgridAPIKey = "SG.key"
	assert.IsType(t, &SendgridService{}, New(conf, logsvc.NewNop()))
}
