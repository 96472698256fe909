package mux

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"log"

	"github.com/go-resty/resty/v2"
)

// Asset is the provider-side video asset created for a chapter upload.
type Asset struct {
	AssetID    string
	PlaybackID string
}

// CreateAsset registers a video URL with the provider and returns the asset
// and playback ids to store alongside the chapter.
func CreateAsset(videoURL string) (*Asset, error) {
	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.MuxTokenID, config.AppConfig.MuxTokenSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"input":           []map[string]string{{"url": videoURL}},
			"playback_policy": []string{"public"},
		}).
		Post(config.AppConfig.MuxApiURL + "/video/v1/assets")
	if err != nil {
		log.Printf("Failed to create video asset: %v", err)
		return nil, err
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		log.Printf("Video asset creation failed: %s", resp.String())
		return nil, fmt.Errorf("video provider returned status %d", resp.StatusCode())
	}

	var assetResp struct {
		Data struct {
			ID          string `json:"id"`
			PlaybackIDs []struct {
				ID string `json:"id"`
			} `json:"playback_ids"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &assetResp); err != nil {
		log.Printf("Failed to parse asset response: %v", err)
		return nil, err
	}

	asset := &Asset{AssetID: assetResp.Data.ID}
	if len(assetResp.Data.PlaybackIDs) > 0 {
		asset.PlaybackID = assetResp.Data.PlaybackIDs[0].ID
	}
	return asset, nil
}

// DeleteAsset removes the provider-side asset when a chapter video is
// replaced or deleted. A 404 from the provider is treated as already gone.
func DeleteAsset(assetID string) error {
	if assetID == "" {
		return nil
	}
	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(config.AppConfig.MuxTokenID, config.AppConfig.MuxTokenSecret).
		Delete(config.AppConfig.MuxApiURL + "/video/v1/assets/" + assetID)
	if err != nil {
		log.Printf("Failed to delete video asset %s: %v", assetID, err)
		return err
	}
	if resp.StatusCode() != 204 && resp.StatusCode() != 404 {
		log.Printf("Video asset deletion failed: %s", resp.String())
		return fmt.Errorf("video provider returned status %d", resp.StatusCode())
	}
	return nil
}
