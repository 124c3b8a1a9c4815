package swap

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/h2non/gock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string) *Client {
	t.Helper()
	c, err := New(&Config{})
	require.NoError(t, err)
	c.token = token
	return c
}

func TestClient_Login(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/auth/login").
		JSON(map[string]any{"email": "staff@example.com", "password": "pass"}).
		Reply(http.StatusOK).
		JSON(map[string]any{"token": "1234"})

	c := newTestClient(t, "")
	err := c.Login(context.Background(), "staff@example.com", "pass")
	require.NoError(t, err)
	assert.Equal(t, "1234", c.getToken())
	assert.Equal(t, "1234", c.GetConfig().Token)
	assert.True(t, gock.IsDone())
}

func TestClient_Login_MissingCredentials(t *testing.T) {
	c := newTestClient(t, "")
	err := c.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestClient_GetPillars(t *testing.T) {
	defer gock.Off()
	token := "foo"
	gock.New(Backend).
		Get("/api/pillars").
		MatchParam("userId", "U-1").
		MatchHeader("Authorization", "Bearer "+token).
		MatchHeader("X-Request-ID", "^[0-9a-f-]{36}$").
		Reply(http.StatusOK).
		JSON(map[string]any{
			"data": []map[string]any{
				{"pillarId": "PI-1", "pillarName": "Pillar 1"},
				{"pillarId": "PI-2", "pillarName": "Pillar 2"},
			},
		})

	c := newTestClient(t, token)
	payload, err := c.GetPillars(context.Background(), "U-1")
	require.NoError(t, err)

	envelope, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Len(t, envelope["data"], 2)
	assert.True(t, gock.IsDone())
}

func TestClient_GetPillarSlots(t *testing.T) {
	defer gock.Off()
	log.SetLevel(logrus.DebugLevel)
	gock.New(Backend).
		Get("/api/pillars/PI-1/slots").
		Reply(http.StatusOK).
		JSON([]map[string]any{{"slotNumber": 1, "batteryId": "BT-9", "soc": 55, "soh": 80}})

	c := newTestClient(t, "foo")
	payload, err := c.GetPillarSlots(context.Background(), "PI-1")
	require.NoError(t, err)

	slots, ok := payload.([]any)
	require.True(t, ok)
	require.Len(t, slots, 1)
	assert.Equal(t, "BT-9", slots[0].(map[string]any)["batteryId"])
}

func TestClient_GetWarehouseInventory_BackendError(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Get("/api/warehouse/batteries").
		MatchParam("staffId", "ST-1").
		Reply(http.StatusInternalServerError).
		JSON(map[string]any{"message": "inventory service unavailable"})

	c := newTestClient(t, "foo")
	payload, err := c.GetWarehouseInventory(context.Background(), "ST-1")
	assert.Nil(t, payload)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "inventory service unavailable", apiErr.Message)
}

func TestClient_DockBattery_Mock(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/pillar-slots/dock").
		MatchHeader("Authorization", "Bearer foo").
		JSON(map[string]any{"staffId": "ST-1", "pillarSlotId": "SL-7", "batteryWareHouseId": "BT-1"}).
		Reply(http.StatusOK).
		JSON(map[string]any{"message": "Battery BT-1 docked"})

	c := newTestClient(t, "foo")
	result, err := c.DockBattery(context.Background(), DockRequest{
		StaffID:            "ST-1",
		PillarSlotID:       "SL-7",
		BatteryWarehouseID: "BT-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Battery BT-1 docked", result.Message)
	assert.True(t, gock.IsDone())
}

func TestClient_DockBattery_InvalidRequest(t *testing.T) {
	c := newTestClient(t, "foo")
	result, err := c.DockBattery(context.Background(), DockRequest{StaffID: "ST-1", BatteryWarehouseID: "BT-1"})
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestClient_UndockBattery_Conflict(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/pillar-slots/undock").
		JSON(map[string]any{"staffId": "ST-1", "pillarSlotId": "SL-3", "batteryId": "BT-9"}).
		Reply(http.StatusConflict).
		JSON(map[string]any{"error": "battery is charging"})

	c := newTestClient(t, "foo")
	_, err := c.UndockBattery(context.Background(), UndockRequest{
		StaffID:      "ST-1",
		PillarSlotID: "SL-3",
		BatteryID:    "BT-9",
	})
	require.Error(t, err)
	assert.Equal(t, "battery is charging", err.Error())
}

func TestClient_TransferBatteries_SameStation(t *testing.T) {
	c := newTestClient(t, "foo")
	_, err := c.TransferBatteries(context.Background(), TransferRequest{
		StaffID:       "ST-1",
		FromStationID: "S-1",
		ToStationID:   "S-1",
		BatteryIDs:    []string{"BT-1"},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestClient_TransferBatteries_Mock(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/warehouse/transfer").
		JSON(map[string]any{
			"staffId":       "ST-1",
			"fromStationId": "S-1",
			"toStationId":   "S-2",
			"batteryIds":    []string{"BT-1", "BT-2"},
		}).
		Reply(http.StatusOK).
		JSON(map[string]any{"message": "2 batteries moved"})

	c := newTestClient(t, "foo")
	result, err := c.TransferBatteries(context.Background(), TransferRequest{
		StaffID:       "ST-1",
		FromStationID: "S-1",
		ToStationID:   "S-2",
		BatteryIDs:    []string{"BT-1", "BT-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2 batteries moved", result.Message)
}

func TestClient_CheckSubscriptionBatteries(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/manual-assist/check").
		JSON(map[string]any{"staffId": "ST-1", "subscriptionId": "SUB-1"}).
		Reply(http.StatusOK).
		JSON(map[string]any{"stationId": "S-1", "batteryIds": []string{"BT-5", "BT-6"}})

	c := newTestClient(t, "foo")
	payload, err := c.CheckSubscriptionBatteries(context.Background(), SubscriptionCheckRequest{
		StaffID:        "ST-1",
		SubscriptionID: "SUB-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "S-1", payload.(map[string]any)["stationId"])
}

func TestClient_SubmitManualAssist_EchoesResponse(t *testing.T) {
	defer gock.Off()
	gock.New(Backend).
		Post("/api/manual-assist").
		JSON(map[string]any{"staffId": "ST-1", "subId": "SUB-2", "batteryOutId": "BT-7", "batteryInId": nil}).
		Reply(http.StatusOK).
		BodyString(`{"ok":true,"swapId":"SW-1"}`)

	c := newTestClient(t, "foo")
	raw, err := c.SubmitManualAssist(context.Background(), ManualAssistRequest{
		StaffID:      "ST-1",
		SubID:        "SUB-2",
		BatteryOutID: "BT-7",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true,"swapId":"SW-1"}`, string(raw))
}

func TestAPIError_FallbackMessage(t *testing.T) {
	err := &APIError{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
	assert.Equal(t, "unexpected status 502 Bad Gateway", err.Error())
}
