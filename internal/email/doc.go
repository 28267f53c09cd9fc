// Package email envía el código de recuperación por correo.
//
//	reset.FlowService ──► Dispatcher.Send(ctx, destino, CodeMessage)
//	                         │ render templates (html + txt)
//	                         │ retry de fallas temporales (DiagnoseSMTP)
//	                         ▼
//	                      Sender ──► SMTPSender (go-mail) | LogSender (mail.log_only)
//
// Cualquier falla final se reporta como ErrDeliveryFailure.
package email
