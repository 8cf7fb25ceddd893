package config

import "github.com/tauraamui/maskdaemon/pkg/configdef"

type defaultSettingKey uint

const (
	CAMERAS          defaultSettingKey = 0x0
	CAMERAWIDTH      defaultSettingKey = 0x1
	CAMERAHEIGHT     defaultSettingKey = 0x2
	MODELPATH        defaultSettingKey = 0x3
	BUNDLEDMODELPATH defaultSettingKey = 0x4
	HTTPADDRESS      defaultSettingKey = 0x5
)

var defaultSettings = map[defaultSettingKey]interface{}{
	CAMERAS:          []configdef.Camera{},
	CAMERAWIDTH:      640,
	CAMERAHEIGHT:     480,
	MODELPATH:        "/var/lib/maskdaemon/landmark68.onnx",
	BUNDLEDMODELPATH: "/usr/share/maskdaemon/landmark68.onnx",
	HTTPADDRESS:      "127.0.0.1:8090",
}

func defaultValues() configdef.Values {
	return configdef.Values{
		ModelPath:          defaultSettings[MODELPATH].(string),
		BundledModelPath:   defaultSettings[BUNDLEDMODELPATH].(string),
		InputSize:          configdef.DefaultInputSize,
		DetectionThreshold: configdef.DefaultDetectionThreshold,
		Cameras:            defaultSettings[CAMERAS].([]configdef.Camera),
		Presenter: configdef.Presenter{
			HTTPAddress: defaultSettings[HTTPADDRESS].(string),
		},
	}
}
