package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type ClientController struct {
	client *http.Client
	logger *logrus.Logger

	apiKey string
}

func NewClientController(
	client *http.Client,
	apiKey string,
	logger *logrus.Logger,
) *ClientController {
	return &ClientController{
		client: client,
		apiKey: apiKey,
		logger: logger,
	}
}

// Binance error codes that the reconciliation engine branches on.
const (
	errCodeUnknownOrderSent  = -2011
	errCodeNoSuchOrder       = -2013
	errCodeWouldImmediately  = -2010
	errCodeTooManyRequests   = -1003
	errCodeNoNeedChangeMode  = -4046
	errCodeNoNeedChangeLever = -4161
)

var (
	ErrUnknownOrder = errors.New("unknown order")
	ErrRateLimited  = errors.New("rate limited")
	ErrRejected     = errors.New("order rejected")

	// ErrRedundantModeChange marks mode-set calls the account is already in;
	// the gateway treats these as success.
	ErrRedundantModeChange = errors.New("redundant mode change")
)

type ErrStruct struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (c *ClientController) Send(method string, url *url.URL, body []byte, useApiKey bool) ([]byte, error) {
	req, err := http.NewRequest(method, url.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	if useApiKey {
		req.Header.Add("X-MBX-APIKEY", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "transport")
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	out, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		return out, nil
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusTeapot {
		return nil, errors.Wrapf(ErrRateLimited, "statusCode %d", resp.StatusCode)
	}

	var errMsg ErrStruct
	if err := json.Unmarshal(out, &errMsg); err != nil {
		return nil, errors.New(fmt.Sprintf("statusCode %d; resp %s;", resp.StatusCode, out))
	}

	switch errMsg.Code {
	case errCodeUnknownOrderSent, errCodeNoSuchOrder:
		return nil, errors.Wrap(ErrUnknownOrder, errMsg.Msg)
	case errCodeTooManyRequests:
		return nil, errors.Wrap(ErrRateLimited, errMsg.Msg)
	case errCodeWouldImmediately:
		return nil, errors.Wrap(ErrRejected, errMsg.Msg)
	case errCodeNoNeedChangeMode, errCodeNoNeedChangeLever:
		return nil, errors.Wrap(ErrRedundantModeChange, errMsg.Msg)
	}

	return nil, errors.New(fmt.Sprintf("statusCode %d; code %d; msg %s;", resp.StatusCode, errMsg.Code, errMsg.Msg))
}
