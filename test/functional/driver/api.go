package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

type APIDriver struct {
	baseURL string
	client  *http.Client
}

func NewAPIDriver(baseURL string) *APIDriver {
	return &APIDriver{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (d *APIDriver) SetKeys(vehicleID string, keys map[string]string) (*http.Response, error) {
	return d.sendJSON(http.MethodPut, fmt.Sprintf("%s/vehicles/%s/keys", d.baseURL, url.PathEscape(vehicleID)), keys)
}

func (d *APIDriver) GetKeys(vehicleID string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/vehicles/%s/keys", d.baseURL, url.PathEscape(vehicleID)))
}

func (d *APIDriver) ClearKeys(vehicleID string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/vehicles/%s/keys", d.baseURL, url.PathEscape(vehicleID)), nil)
	if err != nil {
		panic(err)
	}
	return d.client.Do(req)
}

func (d *APIDriver) SubmitCommand(vehicleID, commandID string, params map[string]any) (*http.Response, error) {
	return d.sendJSON(http.MethodPost, fmt.Sprintf("%s/vehicles/%s/commands", d.baseURL, url.PathEscape(vehicleID)), map[string]any{
		"command_id": commandID,
		"params":     params,
	})
}

func (d *APIDriver) GetCommand(trackingID string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/commands/%s", d.baseURL, url.PathEscape(trackingID)))
}

func (d *APIDriver) GetVehicleState(vehicleID string) (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/vehicles/%s/state", d.baseURL, url.PathEscape(vehicleID)))
}

func (d *APIDriver) RefreshVehicleState(vehicleID string) (*http.Response, error) {
	return d.client.Post(fmt.Sprintf("%s/vehicles/%s/state/refresh", d.baseURL, url.PathEscape(vehicleID)), "application/json", nil)
}

func (d *APIDriver) GetHealthz() (*http.Response, error) {
	return d.client.Get(fmt.Sprintf("%s/healthz", d.baseURL))
}

func (d *APIDriver) sendJSON(method, target string, body any) (*http.Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	req, err := http.NewRequest(method, target, bytes.NewBuffer(reqBody))
	if err != nil {
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return d.client.Do(req)
}
