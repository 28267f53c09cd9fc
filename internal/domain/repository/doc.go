// Package repository define los contratos de acceso a datos del núcleo de autenticación.
//
// El núcleo sólo comparte la tabla de usuarios con el resto del sistema (inventario,
// compras, ventas, planillas) y nunca depende de esa lógica. Además guarda el historial
// de códigos de recuperación.
//
//	┌─────────────────────────────────────────────┐
//	│        services (auth, reset, debug)        │
//	└─────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌─────────────────────────────────────────────┐
//	│  repository (UserRepository,                │
//	│              ResetTokenRepository)          │
//	└─────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌─────────────────────────────────────────────┐
//	│           store/pg (pgxpool)                │
//	└─────────────────────────────────────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro.
//   - Los registros se leen por nombre de columna a structs tipados.
//   - Los errores de almacenamiento se traducen a los de errors.go.
package repository
