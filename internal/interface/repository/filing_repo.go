package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"arrivalcard-service/internal/domain/entity"
	"arrivalcard-service/internal/domain/repository"
	"arrivalcard-service/pkg/logger"

	"github.com/google/uuid"
)

// HTTPFilingClient submits arrival-card data to the immigration gateway
// over HTTP
type HTTPFilingClient struct {
	logger  logger.Logger
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPFilingClient creates a new HTTP filing client
func NewHTTPFilingClient(baseURL, apiKey string, timeout time.Duration, logger logger.Logger) repository.FilingClient {
	return &HTTPFilingClient{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type arrivalCardRequest struct {
	DestinationCountry   string `json:"destinationCountry"`
	ArrivalDate          string `json:"arrivalDate"`
	DepartureDate        string `json:"departureDate"`
	FlightNumber         string `json:"flightNumber"`
	Airline              string `json:"airline"`
	AccommodationAddress string `json:"accommodationAddress"`
	AccommodationPhone   string `json:"accommodationPhone,omitempty"`
	Purpose              string `json:"purpose"`
}

// Submit files the arrival card and returns the authority's
// confirmation token
func (c *HTTPFilingClient) Submit(ctx context.Context, itinerary *entity.Itinerary) (string, error) {
	body := arrivalCardRequest{
		DestinationCountry:   itinerary.DestinationCountry,
		ArrivalDate:          itinerary.ArrivalDate.UTC().Format(time.RFC3339),
		DepartureDate:        itinerary.DepartureDate.UTC().Format(time.RFC3339),
		FlightNumber:         itinerary.FlightNumber,
		Airline:              itinerary.Airline,
		AccommodationAddress: itinerary.AccommodationAddress,
		AccommodationPhone:   itinerary.AccommodationPhone,
		Purpose:              string(itinerary.Purpose),
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal arrival card: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/arrival-cards", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Filing arrival card",
		"itineraryId", itinerary.ID,
		"destination", itinerary.DestinationCountry)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("filing gateway returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ConfirmationToken string `json:"confirmationToken"`
			Status            string `json:"status"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success || response.Data.ConfirmationToken == "" {
		return "", fmt.Errorf("filing rejected: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	c.logger.Info("Arrival card filed",
		"itineraryId", itinerary.ID,
		"token", response.Data.ConfirmationToken)

	return response.Data.ConfirmationToken, nil
}

// SimulatedFilingClient fabricates confirmation tokens without calling
// any external system
type SimulatedFilingClient struct {
	logger logger.Logger
	delay  time.Duration
}

// NewSimulatedFilingClient creates a filing client that pretends to file
func NewSimulatedFilingClient(delay time.Duration, logger logger.Logger) repository.FilingClient {
	return &SimulatedFilingClient{
		logger: logger,
		delay:  delay,
	}
}

// Submit simulates the filing call and returns a time-plus-random token
func (c *SimulatedFilingClient) Submit(ctx context.Context, itinerary *entity.Itinerary) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(c.delay):
	}

	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	token := fmt.Sprintf("%s-%03d", millis[len(millis)-8:], uuid.New().ID()%1000)

	c.logger.Info("Simulated arrival card filing",
		"itineraryId", itinerary.ID,
		"token", token)

	return token, nil
}
