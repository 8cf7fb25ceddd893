package config

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/maskdaemon/pkg/configdef"
	"github.com/tauraamui/maskdaemon/pkg/log"
)

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	values.ApplyDefaults()
	loadDefaultCameraSettings(values.Cameras)

	return values, nil
}

func loadDefaultCameraSettings(cameras []configdef.Camera) {
	for i := range cameras {
		camera := &cameras[i]
		if camera.Width == 0 || camera.Height == 0 {
			camera.Width = defaultSettings[CAMERAWIDTH].(int)
			camera.Height = defaultSettings[CAMERAHEIGHT].(int)
		}
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}
