package steps

import (
	"net/http"
	"strings"
)

func (fc *FeatureContext) keysAreStoredForVehicle(vehicleID string) error {
	if err := fc.iStoreKeysForVehicleWithPrivateKey(vehicleID, "private-key-5678"); err != nil {
		return err
	}
	fc.require.Equal(http.StatusOK, fc.response.StatusCode, "Storing keys should succeed")
	return nil
}

func (fc *FeatureContext) noKeysAreStoredForVehicle(vehicleID string) error {
	if err := fc.iClearTheKeysOfVehicle(vehicleID); err != nil {
		return err
	}
	fc.require.Equal(http.StatusNoContent, fc.response.StatusCode, "Clearing keys should succeed")
	return nil
}

func (fc *FeatureContext) iStoreKeysForVehicleWithPrivateKey(vehicleID, privateKey string) error {
	fc.vehicleID = vehicleID
	return fc.setResponse(fc.apiDriver.SetKeys(vehicleID, map[string]string{
		"phone_id":    "phone-1",
		"identity_id": "identity-1",
		"vehicle_key": "vehicle-key-1234",
		"private_key": privateKey,
	}))
}

func (fc *FeatureContext) iGetTheKeysOfVehicle(vehicleID string) error {
	return fc.setResponse(fc.apiDriver.GetKeys(vehicleID))
}

func (fc *FeatureContext) iClearTheKeysOfVehicle(vehicleID string) error {
	return fc.setResponse(fc.apiDriver.ClearKeys(vehicleID))
}

func (fc *FeatureContext) thePrivateKeyShouldBeMaskedAndEndWith(suffix string) error {
	privateKey, ok := fc.body()["private_key"].(string)
	fc.require.True(ok, "private_key should be a string")
	fc.require.True(strings.HasSuffix(privateKey, suffix), "private_key should end with %q, got %q", suffix, privateKey)
	fc.require.True(strings.HasPrefix(privateKey, "*"), "private_key should be masked, got %q", privateKey)
	return nil
}
