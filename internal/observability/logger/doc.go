// Package logger expone un logger zap global con scoping por request.
//
// Inicialización (una vez, en la CLI):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "minibodega"})
//	defer logger.Sync()
//
// En controllers y services se usa siempre el logger del contexto, que el
// middleware WithLogging ya cargó con request_id, method y path:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("RequestReset"))
//	log.Info("code dispatched", logger.Email(email))
//
// Nunca loguear contraseñas ni códigos de verificación.
package logger
