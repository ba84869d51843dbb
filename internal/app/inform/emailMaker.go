package inform

import (
	"errors"
	"strings"

	"github.com/jordan-wright/email"
	"github.com/spf13/viper"
)

// SimpleEmailMaker builds emails from viper templates.
// Templates live under mail.<msgType>.subject and mail.<msgType>.text
type SimpleEmailMaker struct {
	c *viper.Viper
}

func newSimpleEmailMaker(c *viper.Viper) (*SimpleEmailMaker, error) {
	if c == nil {
		return nil, errors.New("No config provided")
	}
	return &SimpleEmailMaker{c: c}, nil
}

// Make prepares the email for ID
func (maker *SimpleEmailMaker) Make(data *Data) (*email.Email, error) {
	r := email.NewEmail()
	var err error
	r.Subject, err = getStringNonNil(maker.c, "mail."+data.MsgType+".subject")
	if err != nil {
		return nil, err
	}
	text, err := maker.getText(data)
	if err != nil {
		return nil, err
	}
	r.Text = []byte(text)
	r.To = []string{data.Email}
	r.From, err = getStringNonNil(maker.c, "smtp.username")
	return r, err
}

func (maker *SimpleEmailMaker) getText(data *Data) (string, error) {
	r, err := getStringNonNil(maker.c, "mail."+data.MsgType+".text")
	if err != nil {
		return "", err
	}
	r = strings.Replace(r, "{{ID}}", data.ID, -1)
	t := data.MsgTime.Format("2006-01-02 15:04:05")
	r = strings.Replace(r, "{{DATE}}", t, -1)
	return r, nil
}

func getStringNonNil(c *viper.Viper, key string) (string, error) {
	r := c.GetString(key)
	if r == "" {
		return "", errors.New("No setting " + key)
	}
	return r, nil
}
