package bot

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/phoenixix/medbot/internal/pkg/cmdapp"
	"github.com/phoenixix/medbot/internal/pkg/utils"
	"github.com/pkg/errors"
)

// Client communicates with the outbound calling service
type Client struct {
	httpclient *http.Client
	url        string
}

// NewClient creates a calling service client using the bot.url setting.
// Call tasks are posted to <bot.url>/call
func NewClient() (*Client, error) {
	res := Client{}
	base, err := utils.GetURLFromConfig("bot.url")
	if err != nil {
		return nil, err
	}
	res.url = utils.URLJoin(base, "call")
	res.httpclient = &http.Client{Timeout: time.Second * 30}
	return &res, nil
}

type callResponse struct {
	Status  string `json:"status"`
	CallID  string `json:"call_id"`
	Message string `json:"message,omitempty"`
}

// Call posts the call task to the calling service
func (cl *Client) Call(req *Request) (string, error) {
	cmdapp.Log.Infof("Triggering bot call for %s", req.ID)

	b, err := json.Marshal(req)
	if err != nil {
		return "", errors.Wrap(err, "can't marshal call request")
	}
	resp, err := cl.httpclient.Post(cl.url, "application/json", bytes.NewReader(b))
	if err != nil {
		return "", errors.Wrap(err, "can't invoke calling service")
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", errors.Wrap(err, "bot call failed")
	}

	var result callResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", errors.Wrap(err, "can't decode response")
	}
	if result.CallID == "" {
		return "", errors.New("no call_id in response")
	}
	return result.CallID, nil
}
