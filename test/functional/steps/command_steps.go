package steps

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const _eventuallyTimeout = 3 * time.Second

func (fc *FeatureContext) theBackendReportsCommandStatus(status int) error {
	fc.env.Backend.SetCommandStatus(status)
	return nil
}

func (fc *FeatureContext) theBackendReportsABatteryLevelOf(level int) error {
	fc.env.Backend.SetBatteryLevel(float64(level))
	return nil
}

func (fc *FeatureContext) iSubmitTheCommandToVehicle(commandID, vehicleID string) error {
	fc.vehicleID = vehicleID
	return fc.setResponse(fc.apiDriver.SubmitCommand(vehicleID, commandID, nil))
}

func (fc *FeatureContext) theResponseShouldContainATrackingID() error {
	trackingID, ok := fc.body()["tracking_id"].(string)
	fc.require.True(ok, "tracking_id should be a string")
	fc.require.NotEmpty(trackingID)
	fc.require.Equal(fc.vehicleID, fc.body()["vehicle_id"])

	fc.trackingID = trackingID
	return nil
}

func (fc *FeatureContext) theBackendShouldHaveReceivedTheCommand(commandID string) error {
	sent := fc.env.Backend.Sent()
	fc.require.NotEmpty(sent, "The backend should have received a command")

	last := sent[len(sent)-1]
	fc.require.Equal(commandID, last["command"])
	fc.require.Equal(fc.vehicleID, last["vehicle_id"])
	fc.require.Equal("private-key-5678", last["private_key"])
	return nil
}

func (fc *FeatureContext) iGetTheCommand(trackingID string) error {
	return fc.setResponse(fc.apiDriver.GetCommand(trackingID))
}

func (fc *FeatureContext) theCommandShouldEventuallyBe(state string) error {
	fc.require.NotEmpty(fc.trackingID, "No command was submitted")

	var last string
	err := eventually(func() (bool, error) {
		response, err := fc.apiDriver.GetCommand(fc.trackingID)
		if err != nil {
			return false, err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return false, fmt.Errorf("getting command %s: status %d", fc.trackingID, response.StatusCode)
		}

		var handle struct {
			State string `json:"state"`
		}
		if err := json.NewDecoder(response.Body).Decode(&handle); err != nil {
			return false, err
		}
		last = handle.State
		return last == state, nil
	})
	if err != nil {
		return err
	}

	fc.require.Equal(state, last)
	return nil
}

func (fc *FeatureContext) iRefreshTheStateOfVehicle(vehicleID string) error {
	return fc.setResponse(fc.apiDriver.RefreshVehicleState(vehicleID))
}

func (fc *FeatureContext) theCachedBatteryLevelShouldEventuallyBe(vehicleID string, level int) error {
	var last any
	err := eventually(func() (bool, error) {
		response, err := fc.apiDriver.GetVehicleState(vehicleID)
		if err != nil {
			return false, err
		}
		defer response.Body.Close()

		if response.StatusCode != http.StatusOK {
			return false, nil
		}

		var snapshot struct {
			Signals map[string]struct {
				Value any `json:"value"`
			} `json:"signals"`
		}
		if err := json.NewDecoder(response.Body).Decode(&snapshot); err != nil {
			return false, err
		}
		last = snapshot.Signals["batteryLevel"].Value
		return last == float64(level), nil
	})
	if err != nil {
		return err
	}

	fc.require.Equal(float64(level), last)
	return nil
}

// eventually polls check until it reports done or the timeout expires. The
// last observation is asserted by the caller.
func eventually(check func() (bool, error)) error {
	deadline := time.Now().Add(_eventuallyTimeout)
	for {
		done, err := check()
		if err != nil {
			return err
		}
		if done || time.Now().After(deadline) {
			return nil
		}
		time.Sleep(25 * time.Millisecond)
	}
}
